package source

import (
	"fmt"
	"time"

	"github.com/qualitytools/qt/internal/config/loader"
)

// Ref is the compact identifier a source leaves behind in provenance
// records. Synthetic sources have no path.
type Ref struct {
	Tier Tier
	Path string
}

// String renders "tier" for synthetic sources and "tier (path)" for
// file-backed ones.
func (r Ref) String() string {
	if r.Path == "" {
		return r.Tier.String()
	}
	return fmt.Sprintf("%s (%s)", r.Tier, r.Path)
}

// ConfigSource is one discovered or synthesized configuration input.
// Sources are created once per discovery run and never mutated.
type ConfigSource struct {
	// Tier places the source in the precedence hierarchy.
	Tier Tier

	// Path is the file path; empty for synthetic sources.
	Path string

	// Format is the on-disk syntax the file used.
	Format loader.Format

	// Tool scopes the source to one external tool; empty means the
	// source applies to all tools.
	Tool string

	// Data is the parsed document (or the opaque override marker for a
	// native tool config).
	Data map[string]any

	// ObservedAt is when discovery saw the source.
	ObservedAt time.Time
}

// Rank returns the source's merge precedence rank, derived from its tier.
func (s *ConfigSource) Rank() int {
	return s.Tier.Rank()
}

// Ref returns the provenance identifier for the source.
func (s *ConfigSource) Ref() Ref {
	return Ref{Tier: s.Tier, Path: s.Path}
}
