// Package merge folds discovered configuration sources into a single
// document with per-key provenance.
//
// Sources fold in ascending precedence order, lowest rank first, so each
// later source lands on top of everything before it. Maps merge
// recursively, lists union without duplicates, and any other collision is
// an override that records a Conflict. A tool subtree arriving with
// custom_config set replaces the accumulated subtree outright: the tool's
// own config file owns that tool. Folding is deterministic; the caller's
// source order never changes the outcome.
package merge

import (
	"reflect"
	"sort"
	"strings"

	"github.com/qualitytools/qt/internal/config/source"
)

// pathListKeys always merge as unique path lists regardless of the
// generic rules. A lone string counts as a one-element list.
var pathListKeys = map[string]bool{
	"paths":   true,
	"scan":    true,
	"exclude": true,
}

// Merger folds ConfigSources into one document. A Merger holds only
// options and is safe to reuse across passes.
type Merger struct {
	provenance bool
}

// New creates a merger with provenance tracking enabled.
func New() *Merger {
	return &Merger{provenance: true}
}

// WithProvenance toggles attribution, conflict, and chain tracking.
// Callers that only need merged values can turn it off and skip the
// bookkeeping.
func (m *Merger) WithProvenance(enabled bool) *Merger {
	m.provenance = enabled
	return m
}

// Merge folds the sources in ascending rank order, ties broken by path,
// and returns the merged document with its provenance. The input slice
// is not modified.
func (m *Merger) Merge(sources []source.ConfigSource) *Result {
	ordered := make([]source.ConfigSource, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Rank() != ordered[j].Rank() {
			return ordered[i].Rank() < ordered[j].Rank()
		}
		return ordered[i].Path < ordered[j].Path
	})

	res := &Result{
		Data: make(map[string]any),
		Summary: Summary{
			Sources: make([]SourceSummary, 0, len(ordered)),
		},
	}
	if m.provenance {
		res.SourceMap = make(map[string]source.Ref)
		res.Chains = make(map[string][]source.Ref)
		res.Summary.ConflictCount = make(map[string]int)
	}

	for i := range ordered {
		src := &ordered[i]
		res.Summary.Sources = append(res.Summary.Sources, SourceSummary{
			Tier:   src.Tier,
			Path:   src.Path,
			Format: src.Format,
			Tool:   src.Tool,
			Rank:   src.Rank(),
		})
		m.mergeMap(res, src.Ref(), res.Data, src.Data, "")
	}

	return res
}

// mergeMap folds one incoming map into the accumulated map at prefix.
// Keys are visited in sorted order so conflict records are stable.
func (m *Merger) mergeMap(res *Result, ref source.Ref, dst, incoming map[string]any, prefix string) {
	for _, key := range sortedKeys(incoming) {
		inVal := incoming[key]
		path := joinPath(prefix, key)
		exVal, exists := dst[key]

		if !exists {
			dst[key] = CloneValue(inVal)
			m.attribute(res, ref, path, inVal)
			continue
		}

		inMap, inIsMap := inVal.(map[string]any)
		exMap, exIsMap := exVal.(map[string]any)
		if inIsMap && exIsMap {
			if toolSubtree(path) && inMap["custom_config"] == true {
				m.override(res, ref, dst, key, path, exVal, inVal)
				continue
			}
			m.mergeMap(res, ref, exMap, inMap, path)
			continue
		}

		if pathListKeys[key] && !inIsMap && !exIsMap {
			merged := unionLists(asList(exVal), asList(inVal))
			dst[key] = merged
			m.attribute(res, ref, path, merged)
			continue
		}

		inList, inIsList := inVal.([]any)
		exList, exIsList := exVal.([]any)
		if inIsList && exIsList {
			dst[key] = unionLists(exList, inList)
			m.attribute(res, ref, path, inVal)
			continue
		}

		if equalValues(exVal, inVal) {
			m.attribute(res, ref, path, inVal)
			continue
		}

		m.override(res, ref, dst, key, path, exVal, inVal)
	}
}

// override replaces the accumulated value at path and records the
// conflict. Attributions beneath a replaced subtree are dropped; chains
// keep the full write history.
func (m *Merger) override(res *Result, ref source.Ref, dst map[string]any, key, path string, oldVal, newVal any) {
	if m.provenance {
		res.Conflicts = append(res.Conflicts, Conflict{
			KeyPath:        path,
			PreviousValue:  CloneValue(oldVal),
			PreviousSource: m.previousSource(res, path),
			NewValue:       CloneValue(newVal),
			NewSource:      ref,
			Resolution:     ResolutionOverride,
			Winner:         ref,
		})
		res.Summary.ConflictCount[path]++
		m.purge(res, path)
	}
	dst[key] = CloneValue(newVal)
	m.attribute(res, ref, path, newVal)
}

// attribute records ref as the last setter of path. Maps attribute their
// leaves; lists and scalars are leaves themselves.
func (m *Merger) attribute(res *Result, ref source.Ref, path string, val any) {
	if !m.provenance {
		return
	}
	if sub, ok := val.(map[string]any); ok {
		for _, key := range sortedKeys(sub) {
			m.attribute(res, ref, joinPath(path, key), sub[key])
		}
		return
	}
	res.SourceMap[path] = ref
	res.Chains[path] = append(res.Chains[path], ref)
}

// purge drops attributions at path and everything beneath it.
func (m *Merger) purge(res *Result, path string) {
	prefix := path + "."
	for p := range res.SourceMap {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(res.SourceMap, p)
		}
	}
}

// previousSource finds who held a path before an override: the leaf
// attribution when there is one, otherwise the highest ranked writer
// within the subtree, ties broken by path for determinism.
func (m *Merger) previousSource(res *Result, path string) source.Ref {
	if ref, ok := res.SourceMap[path]; ok {
		return ref
	}

	prefix := path + "."
	var best source.Ref
	found := false
	for p, ref := range res.SourceMap {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		if !found || ref.Tier.Rank() > best.Tier.Rank() ||
			(ref.Tier.Rank() == best.Tier.Rank() && ref.Path < best.Path) {
			best = ref
			found = true
		}
	}
	return best
}

// toolSubtree reports whether path addresses one tool's settings block,
// the only place the custom_config marker is honored.
func toolSubtree(path string) bool {
	rest, ok := strings.CutPrefix(path, "quality-tools.tools.")
	return ok && rest != "" && !strings.Contains(rest, ".")
}

// unionLists merges two lists, keeping first occurrence order and
// dropping duplicates.
func unionLists(a, b []any) []any {
	out := make([]any, 0, len(a)+len(b))
	for _, list := range [2][]any{a, b} {
		for _, item := range list {
			if !containsValue(out, item) {
				out = append(out, CloneValue(item))
			}
		}
	}
	return out
}

// asList coerces a value to a list. Scalars become one-element lists and
// nil becomes empty.
func asList(val any) []any {
	switch v := val.(type) {
	case []any:
		return v
	case nil:
		return nil
	default:
		return []any{v}
	}
}

// containsValue reports whether list already holds val.
func containsValue(list []any, val any) bool {
	for _, item := range list {
		if equalValues(item, val) {
			return true
		}
	}
	return false
}

// equalValues compares two parsed values, normalizing numeric types
// first: YAML, TOML, and JSON decode the same integer literal as
// different Go types.
func equalValues(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
