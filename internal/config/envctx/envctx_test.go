package envctx

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		vars   map[string]string
		key    string
		want   string
		wantOK bool
	}{
		{
			name:   "set variable",
			vars:   map[string]string{"HOME": "/home/alice"},
			key:    "HOME",
			want:   "/home/alice",
			wantOK: true,
		},
		{
			name:   "missing variable",
			vars:   map[string]string{"HOME": "/home/alice"},
			key:    "USER",
			want:   "",
			wantOK: false,
		},
		{
			name:   "empty counts as unset",
			vars:   map[string]string{"CI": ""},
			key:    "CI",
			want:   "",
			wantOK: false,
		},
		{
			name:   "nil map",
			vars:   nil,
			key:    "HOME",
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := New(tt.vars, "/home/alice")
			got, ok := ctx.Lookup(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNewCopiesVars(t *testing.T) {
	vars := map[string]string{"HOME": "/home/alice"}
	ctx := New(vars, "/home/alice")

	vars["HOME"] = "/tmp/other"

	if got, _ := ctx.Lookup("HOME"); got != "/home/alice" {
		t.Errorf("Lookup(HOME) = %q after caller mutation, want %q", got, "/home/alice")
	}
}

func TestHome(t *testing.T) {
	ctx := New(nil, "/home/bob")
	if got := ctx.Home(); got != "/home/bob" {
		t.Errorf("Home() = %q, want %q", got, "/home/bob")
	}
}

func TestIsZero(t *testing.T) {
	var zero Context
	if !zero.IsZero() {
		t.Error("zero value Context.IsZero() = false, want true")
	}
	if New(nil, "").IsZero() {
		t.Error("New(nil, \"\").IsZero() = true, want false")
	}
	if New(map[string]string{"CI": "true"}, "/home/alice").IsZero() {
		t.Error("populated Context.IsZero() = true, want false")
	}
}
