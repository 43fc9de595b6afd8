// Package interp expands environment-variable placeholders in raw
// configuration text.
//
// Interpolation runs before structural parsing, so substituted values are
// always plain scalar text and the security checks live in one place no
// matter where in a document a placeholder appears. Only a fixed allowlist
// of variable names may be referenced; everything else is a security
// violation, not a missing value.
package interp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/qualitytools/qt/internal/config/envctx"
)

// allowed is the fixed set of variable names configuration files may
// reference: user identity, qt project hints, PHP runtime hints, and CI
// detection flags. PATH is deliberately absent. Not extensible at runtime.
var allowed = map[string]struct{}{
	"HOME":             {},
	"USER":             {},
	"QT_PROJECT_ROOT":  {},
	"QT_VENDOR_DIR":    {},
	"QT_CACHE_DIR":     {},
	"PHP_MEMORY_LIMIT": {},
	"PHP_VERSION":      {},
	"CI":               {},
	"GITHUB_ACTIONS":   {},
	"GITLAB_CI":        {},
}

// placeholder matches ${NAME} and ${NAME:-default}. The default may be
// empty.
var placeholder = regexp.MustCompile(`\$\{([A-Z][A-Z0-9_]*)(:-([^}]*))?\}`)

// unsafeFragments are rejected inside substituted values. Path traversal
// and shell metacharacters have no business in configuration scalars.
var unsafeFragments = []string{"..", "\x00", "\n", "`", "$(", ";", "|", "&"}

// Interpolator expands placeholders against an explicit environment
// snapshot.
type Interpolator struct {
	env envctx.Context
}

// New creates an interpolator reading from env.
func New(env envctx.Context) *Interpolator {
	return &Interpolator{env: env}
}

// Interpolate expands every placeholder in text and returns the result.
// The first violation aborts the whole text: a disallowed name fails even
// when a default is supplied, a set variable with unsafe content fails,
// and an unset variable without a default fails.
func (ip *Interpolator) Interpolate(text string) (string, error) {
	matches := placeholder.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])

		name := text[m[2]:m[3]]
		hasDefault := m[4] >= 0
		def := ""
		if m[6] >= 0 {
			def = text[m[6]:m[7]]
		}

		if _, ok := allowed[name]; !ok {
			return "", &Error{Name: name, Reason: NotAllowed}
		}

		value, set := ip.env.Lookup(name)
		switch {
		case set:
			if !safeValue(value) {
				return "", &Error{Name: name, Reason: UnsafeValue}
			}
			b.WriteString(value)
		case hasDefault:
			b.WriteString(def)
		default:
			return "", &Error{Name: name, Reason: Unset}
		}

		last = m[1]
	}
	b.WriteString(text[last:])

	return b.String(), nil
}

// safeValue reports whether a substituted value passes the content-safety
// rule.
func safeValue(value string) bool {
	for _, frag := range unsafeFragments {
		if strings.Contains(value, frag) {
			return false
		}
	}
	return true
}

// Reason classifies an interpolation failure.
type Reason uint8

const (
	// NotAllowed means the variable name is outside the allowlist.
	NotAllowed Reason = iota
	// UnsafeValue means the variable's value failed the content-safety rule.
	UnsafeValue
	// Unset means the variable is unset and no default was supplied.
	Unset
)

// Error is an interpolation failure. The message strings are a
// compatibility contract with downstream consumers and must not change.
type Error struct {
	Name   string
	Reason Reason
}

func (e *Error) Error() string {
	switch e.Reason {
	case NotAllowed:
		return fmt.Sprintf("Access to environment variable %q is not allowed for security reasons", e.Name)
	case UnsafeValue:
		return fmt.Sprintf("Environment variable %q contains potentially unsafe content", e.Name)
	default:
		return fmt.Sprintf("Environment variable %q is not set and no default value provided", e.Name)
	}
}
