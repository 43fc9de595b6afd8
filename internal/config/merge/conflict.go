package merge

import (
	"github.com/qualitytools/qt/internal/config/loader"
	"github.com/qualitytools/qt/internal/config/source"
)

// ResolutionOverride is the only conflict resolution strategy: the
// higher ranked source wins outright.
const ResolutionOverride = "override"

// Conflict records one key whose accumulated value was replaced by a
// higher ranked source during merging.
type Conflict struct {
	// KeyPath is the dot-separated path of the replaced key.
	KeyPath string

	// PreviousValue is the value that was replaced.
	PreviousValue any

	// PreviousSource is the source that held the key before.
	PreviousSource source.Ref

	// NewValue is the replacing value.
	NewValue any

	// NewSource is the source that replaced it.
	NewSource source.Ref

	// Resolution names the strategy applied; always ResolutionOverride.
	Resolution string

	// Winner is the source whose value survived.
	Winner source.Ref
}

// SourceSummary describes one folded source for diagnostic output.
type SourceSummary struct {
	Tier   source.Tier
	Path   string
	Format loader.Format
	Tool   string
	Rank   int
}

// Summary carries per-merge diagnostic metadata: the sources in fold
// order and conflict counts grouped by key path. Diagnostic commands
// render it; nothing else may depend on it.
type Summary struct {
	Sources       []SourceSummary
	ConflictCount map[string]int
}

// Result is the outcome of one merge pass. Data is the merged document;
// SourceMap maps each leaf key path to the source that last set it.
// SourceMap, Conflicts, and Chains are nil when provenance tracking was
// disabled.
type Result struct {
	Data      map[string]any
	SourceMap map[string]source.Ref
	Conflicts []Conflict
	Chains    map[string][]source.Ref
	Summary   Summary
}

// SourceOf returns the source that last set the leaf key path.
func (r *Result) SourceOf(path string) (source.Ref, bool) {
	ref, ok := r.SourceMap[path]
	return ref, ok
}

// ConflictsFor returns the conflicts recorded at exactly this key path.
func (r *Result) ConflictsFor(path string) []Conflict {
	var out []Conflict
	for _, c := range r.Conflicts {
		if c.KeyPath == path {
			out = append(out, c)
		}
	}
	return out
}

// WasOverridden reports whether a conflict was recorded at this key path.
func (r *Result) WasOverridden(path string) bool {
	for _, c := range r.Conflicts {
		if c.KeyPath == path {
			return true
		}
	}
	return false
}

// Chain returns every source that set the key path during the fold, in
// fold order. Writes discarded later by a subtree replacement stay in
// the chain; it is a history, not the final attribution.
func (r *Result) Chain(path string) []source.Ref {
	chain, ok := r.Chains[path]
	if !ok {
		return nil
	}
	return append([]source.Ref(nil), chain...)
}
