package source

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/qualitytools/qt/internal/config/envctx"
	"github.com/qualitytools/qt/internal/config/interp"
	"github.com/qualitytools/qt/internal/config/loader"
	"github.com/qualitytools/qt/internal/config/schema"
)

// Discovery probes the catalog and loads every configuration source that
// exists. One Discovery serves one resolution pass.
type Discovery struct {
	catalog   *Catalog
	fs        loader.FileSystem
	env       envctx.Context
	interp    *interp.Interpolator
	overrides map[string]Ref
}

// NewDiscovery creates a discovery pass over the catalog, reading files
// through fsys and the environment through env.
func NewDiscovery(catalog *Catalog, env envctx.Context, fsys loader.FileSystem) *Discovery {
	return &Discovery{
		catalog:   catalog,
		fs:        fsys,
		env:       env,
		interp:    interp.New(env),
		overrides: make(map[string]Ref),
	}
}

// Discover returns the sources that exist on disk plus the synthetic
// built-in defaults, unordered; ordering is the merger's job. Per-file
// load failures land in the returned map and never abort discovery.
func (d *Discovery) Discover() ([]ConfigSource, map[string]string, error) {
	return d.discover("")
}

// DiscoverForTool restricts discovery to general sources plus the named
// tool's own overrides.
func (d *Discovery) DiscoverForTool(tool string) ([]ConfigSource, map[string]string, error) {
	return d.discover(tool)
}

func (d *Discovery) discover(onlyTool string) ([]ConfigSource, map[string]string, error) {
	sch, err := schema.LoadEmbedded()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration schema: %w", err)
	}

	errs := make(map[string]string)
	sources := []ConfigSource{defaultsSource(sch)}

	if src, ok := d.firstExisting(sch, d.catalog.Global(d.env.Home()), errs); ok {
		sources = append(sources, src)
	}

	sources = append(sources, d.packageSources(sch, errs)...)

	tools := knownTools
	if onlyTool != "" {
		tools = []string{onlyTool}
	}
	for _, tool := range tools {
		if src, ok := d.firstExisting(sch, d.catalog.ToolConfigDir(tool), errs); ok {
			sources = append(sources, src)
		}
		if src, ok := d.firstExisting(sch, d.catalog.ToolSpecific(tool), errs); ok {
			sources = append(sources, src)
		}
	}

	if src, ok := d.firstExisting(sch, d.catalog.ConfigDir(), errs); ok {
		sources = append(sources, src)
	}
	if src, ok := d.firstExisting(sch, d.catalog.ProjectRoot(), errs); ok {
		sources = append(sources, src)
	}

	return sources, errs, nil
}

// HasOverride reports whether a native config file owns the tool's
// configuration. Valid after a discovery run.
func (d *Discovery) HasOverride(tool string) bool {
	_, ok := d.overrides[tool]
	return ok
}

// OverridePath returns the native config path for the tool, if any.
func (d *Discovery) OverridePath(tool string) (string, bool) {
	ref, ok := d.overrides[tool]
	return ref.Path, ok
}

// firstExisting probes candidates in order and loads the first one
// present on disk. A file that exists but fails to load still claims its
// tier: the failure is recorded and the tier contributes nothing.
func (d *Discovery) firstExisting(sch *schema.Schema, candidates []Candidate, errs map[string]string) (ConfigSource, bool) {
	for _, cand := range candidates {
		if _, err := d.fs.Stat(cand.Path); err != nil {
			continue
		}
		return d.loadCandidate(sch, cand, errs)
	}
	return ConfigSource{}, false
}

// packageSources expands the sibling-package globs. Each package
// directory contributes at most one source.
func (d *Discovery) packageSources(sch *schema.Schema, errs map[string]string) []ConfigSource {
	var out []ConfigSource
	seen := make(map[string]bool)
	for _, pattern := range d.catalog.PackageConfigGlobs() {
		matches, err := d.fs.Glob(pattern)
		if err != nil {
			continue
		}
		for _, path := range matches {
			dir := filepath.Dir(path)
			if seen[dir] {
				continue
			}
			seen[dir] = true
			if src, ok := d.loadCandidate(sch, Candidate{Path: path, Tier: TierPackageConfig}, errs); ok {
				out = append(out, src)
			}
		}
	}
	return out
}

// loadCandidate turns one existing candidate into a source. Native tool
// configs become opaque override markers without touching their contents;
// everything else is read, interpolated, parsed, and checked against the
// schema advisorily.
func (d *Discovery) loadCandidate(sch *schema.Schema, cand Candidate, errs map[string]string) (ConfigSource, bool) {
	if cand.Native {
		d.recordOverride(cand)
		return ConfigSource{
			Tier:       cand.Tier,
			Path:       cand.Path,
			Format:     loader.DetectFormat(cand.Path),
			Tool:       cand.Tool,
			Data:       markerData(cand.Tool, cand.Path),
			ObservedAt: time.Now(),
		}, true
	}

	doc, ok := d.loadParsed(cand.Path, errs)
	if !ok {
		return ConfigSource{}, false
	}
	if cand.Tool != "" {
		doc = wrapToolFragment(cand.Tool, doc)
	}
	d.validateAdvisory(sch, cand.Path, doc, errs)

	return ConfigSource{
		Tier:       cand.Tier,
		Path:       cand.Path,
		Format:     loader.DetectFormat(cand.Path),
		Tool:       cand.Tool,
		Data:       doc,
		ObservedAt: time.Now(),
	}, true
}

// loadParsed reads, interpolates, and parses one file. Failures are
// recorded per path; interpolation errors are security errors and are
// never downgraded to a raw-text fallback.
func (d *Discovery) loadParsed(path string, errs map[string]string) (map[string]any, bool) {
	raw, err := d.fs.ReadFile(path)
	if err != nil {
		errs[path] = err.Error()
		return nil, false
	}

	text, err := d.interp.Interpolate(string(raw))
	if err != nil {
		errs[path] = err.Error()
		return nil, false
	}

	doc, err := loader.Parse(path, loader.DetectFormat(path), []byte(text))
	if err != nil {
		errs[path] = err.Error()
		return nil, false
	}

	return doc, true
}

// validateAdvisory runs safe-mode validation. Failures are diagnostics in
// the error map; the source still participates in the merge, and the
// strict pass over the merged document decides what is fatal.
func (d *Discovery) validateAdvisory(sch *schema.Schema, path string, doc map[string]any, errs map[string]string) {
	if err := schema.NewValidator(sch).WithStrictMode(true).Validate(doc); err != nil {
		errs[path] = "validation: " + err.Error()
	}
}

// recordOverride notes a native override, keeping the highest-tier one
// per tool.
func (d *Discovery) recordOverride(cand Candidate) {
	if existing, ok := d.overrides[cand.Tool]; ok && existing.Tier.Rank() >= cand.Tier.Rank() {
		return
	}
	d.overrides[cand.Tool] = Ref{Tier: cand.Tier, Path: cand.Path}
}

// defaultsSource builds the synthetic built-in baseline document from the
// schema's declared defaults.
func defaultsSource(sch *schema.Schema) ConfigSource {
	return ConfigSource{
		Tier:       TierPackageDefaults,
		Data:       sch.ApplyDefaults(map[string]any{}),
		ObservedAt: time.Now(),
	}
}

// markerData is the opaque override document for a native tool config:
// the tool fully owns its configuration, so only the marker and the file
// location flow into the merge.
func markerData(tool, path string) map[string]any {
	return map[string]any{
		"quality-tools": map[string]any{
			"tools": map[string]any{
				tool: map[string]any{
					"custom_config": true,
					"config_file":   path,
				},
			},
		},
	}
}

// wrapToolFragment mounts a per-tool fragment at its place in the full
// document shape.
func wrapToolFragment(tool string, fragment map[string]any) map[string]any {
	return map[string]any{
		"quality-tools": map[string]any{
			"tools": map[string]any{
				tool: fragment,
			},
		},
	}
}
