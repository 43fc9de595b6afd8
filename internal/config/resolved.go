package config

import (
	"fmt"
	"sync"

	"github.com/qualitytools/qt/internal/config/merge"
	"github.com/qualitytools/qt/internal/config/source"
)

// ResolvedConfig is the immutable outcome of one resolution pass: the
// merged document plus typed accessors and provenance queries. Key paths
// are full document paths starting at the quality-tools root, for
// example "quality-tools.tools.phpstan.level".
//
// When the pass ran without provenance tracking, the provenance queries
// return empty results; the resolved values are identical either way.
type ResolvedConfig struct {
	projectRoot   string
	tool          string
	result        *merge.Result
	sourceErrs    map[string]string
	toolOverrides map[string]string

	mu           sync.RWMutex
	configErrors map[string]error
}

func newResolved(projectRoot, tool string, discovery *source.Discovery, result *merge.Result, diags map[string]string) *ResolvedConfig {
	overrides := make(map[string]string)
	for _, name := range source.KnownTools() {
		if path, ok := discovery.OverridePath(name); ok {
			overrides[name] = path
		}
	}
	return &ResolvedConfig{
		projectRoot:   projectRoot,
		tool:          tool,
		result:        result,
		sourceErrs:    diags,
		toolOverrides: overrides,
	}
}

// ProjectRoot returns the project root the configuration was resolved for.
func (r *ResolvedConfig) ProjectRoot() string {
	return r.projectRoot
}

// Tool returns the tool the resolution was scoped to, or "" for a full
// resolution.
func (r *ResolvedConfig) Tool() string {
	return r.tool
}

// Data returns a deep copy of the merged document.
func (r *ResolvedConfig) Data() map[string]any {
	return merge.CloneMap(r.result.Data)
}

// Get returns a deep copy of the value at the given document path.
func (r *ResolvedConfig) Get(path string) (any, bool) {
	v, ok := merge.GetByPath(r.result.Data, path)
	if !ok {
		return nil, false
	}
	return merge.CloneValue(v), true
}

// GetString returns a string value at the given path.
func (r *ResolvedConfig) GetString(path string) (string, error) {
	v, ok := r.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path. YAML, TOML, and
// JSON sources decode integers as different Go types; all of them
// convert.
func (r *ResolvedConfig) GetInt(path string) (int, error) {
	v, ok := r.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (r *ResolvedConfig) GetBool(path string) (bool, error) {
	v, ok := r.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetStringSlice returns a string slice at the given path.
func (r *ResolvedConfig) GetStringSlice(path string) ([]string, error) {
	v, ok := r.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
	result := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
		}
		result[i] = s
	}
	return result, nil
}

// SourceOf returns the source that last set the leaf key path.
func (r *ResolvedConfig) SourceOf(path string) (source.Ref, bool) {
	return r.result.SourceOf(path)
}

// ConflictsFor returns the conflicts recorded at the key path.
func (r *ResolvedConfig) ConflictsFor(path string) []merge.Conflict {
	return r.result.ConflictsFor(path)
}

// WasOverridden reports whether the key path lost a value to a higher
// ranked source during merging.
func (r *ResolvedConfig) WasOverridden(path string) bool {
	return r.result.WasOverridden(path)
}

// FullChain returns every source that set the key path, in fold order.
func (r *ResolvedConfig) FullChain(path string) []source.Ref {
	return r.result.Chain(path)
}

// Conflicts returns all conflicts recorded during merging.
func (r *ResolvedConfig) Conflicts() []merge.Conflict {
	return append([]merge.Conflict(nil), r.result.Conflicts...)
}

// Summary returns the merge diagnostics: folded sources in order and
// conflict counts per key path.
func (r *ResolvedConfig) Summary() merge.Summary {
	s := merge.Summary{
		Sources: append([]merge.SourceSummary(nil), r.result.Summary.Sources...),
	}
	if r.result.Summary.ConflictCount != nil {
		s.ConflictCount = make(map[string]int, len(r.result.Summary.ConflictCount))
		for path, n := range r.result.Summary.ConflictCount {
			s.ConflictCount[path] = n
		}
	}
	return s
}

// SourceErrors returns per-file diagnostics recorded during discovery:
// unreadable, uninterpolatable, or unparsable files, and advisory
// validation failures.
func (r *ResolvedConfig) SourceErrors() map[string]string {
	if len(r.sourceErrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.sourceErrs))
	for path, msg := range r.sourceErrs {
		out[path] = msg
	}
	return out
}

// HasToolOverride reports whether a native config file owns the tool's
// configuration.
func (r *ResolvedConfig) HasToolOverride(tool string) bool {
	_, ok := r.toolOverrides[tool]
	return ok
}

// ToolOverridePath returns the native config path for the tool, if any.
func (r *ResolvedConfig) ToolOverridePath(tool string) (string, bool) {
	path, ok := r.toolOverrides[tool]
	return path, ok
}

// recordConfigError stores configuration errors encountered by accessors.
// Only the first error for each path is kept to preserve the original
// cause.
func (r *ResolvedConfig) recordConfigError(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.configErrors == nil {
		r.configErrors = make(map[string]error)
	}
	if _, exists := r.configErrors[path]; !exists {
		r.configErrors[path] = err
	}
}

// ConfigErrors returns any configuration errors encountered during
// access. This lets callers surface misconfigurations the total
// accessors papered over with defaults.
func (r *ResolvedConfig) ConfigErrors() map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(r.configErrors))
	for k, v := range r.configErrors {
		result[k] = v
	}
	return result
}

// typeName returns a short descriptive type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case map[string]any:
		return "map"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}
