// Package envctx carries an explicit snapshot of the process environment
// used during configuration resolution.
//
// Resolution code never calls os.Getenv or os.UserHomeDir directly; it
// receives a Context instead, so the interpolation allowlist and
// content-safety checks can be exercised in tests without touching real
// process state.
package envctx

import (
	"os"
	"strings"
)

// Context is an immutable view of environment variables and the user home
// directory.
type Context struct {
	vars map[string]string
	home string
}

// New creates a context from an explicit variable map and home directory.
// The map is copied.
func New(vars map[string]string, home string) Context {
	copied := make(map[string]string, len(vars))
	for name, value := range vars {
		copied[name] = value
	}
	return Context{vars: copied, home: home}
}

// FromOS snapshots the real process environment.
func FromOS() Context {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			vars[name] = value
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return Context{vars: vars, home: home}
}

// IsZero reports whether the context was left unset. New always returns
// a non-zero context, even for an empty variable map.
func (c Context) IsZero() bool {
	return c.vars == nil && c.home == ""
}

// Lookup returns the value of name. A variable that is present but empty
// counts as unset.
func (c Context) Lookup(name string) (string, bool) {
	value, ok := c.vars[name]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Home returns the user home directory, or "" if none could be determined.
func (c Context) Home() string {
	return c.home
}
