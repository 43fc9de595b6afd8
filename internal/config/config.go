package config

import (
	"fmt"
	"time"

	"github.com/qualitytools/qt/internal/config/envctx"
	"github.com/qualitytools/qt/internal/config/loader"
	"github.com/qualitytools/qt/internal/config/merge"
	"github.com/qualitytools/qt/internal/config/schema"
	"github.com/qualitytools/qt/internal/config/source"
)

// Options adjust one resolution pass. The zero value resolves against
// the process environment and the real file system without provenance
// tracking.
type Options struct {
	// Environment is the environment snapshot used for interpolation and
	// the home-directory lookup. Leave zero to snapshot the process
	// environment at resolution time.
	Environment envctx.Context

	// FS is the file system sources are read from. Leave nil for the OS
	// file system.
	FS loader.FileSystem

	// Provenance enables attribution, conflict, and chain tracking.
	// Commands that only need resolved values leave it off; diagnostic
	// commands turn it on.
	Provenance bool
}

// Resolve discovers, merges, and validates configuration for a project
// root. Overrides are command line settings keyed by dot-separated paths
// relative to the quality-tools document root; they fold in at the
// highest rank. Resolution fails if the merged document violates the
// schema.
func Resolve(projectRoot string, overrides map[string]any, opts Options) (*ResolvedConfig, error) {
	return resolve(projectRoot, "", overrides, opts)
}

// ResolveForTool resolves configuration from general sources plus the
// named tool's own override files, skipping every other tool's sources.
func ResolveForTool(projectRoot, tool string, overrides map[string]any, opts Options) (*ResolvedConfig, error) {
	if !source.IsKnownTool(tool) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
	return resolve(projectRoot, tool, overrides, opts)
}

func resolve(projectRoot, tool string, overrides map[string]any, opts Options) (*ResolvedConfig, error) {
	env := opts.Environment
	if env.IsZero() {
		env = envctx.FromOS()
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}

	info, err := fsys.Stat(projectRoot)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrProjectRootNotFound, projectRoot)
	}

	discovery := source.NewDiscovery(source.NewCatalog(projectRoot), env, fsys)
	var (
		sources []source.ConfigSource
		diags   map[string]string
	)
	if tool == "" {
		sources, diags, err = discovery.Discover()
	} else {
		sources, diags, err = discovery.DiscoverForTool(tool)
	}
	if err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		sources = append(sources, overrideSource(overrides))
	}

	result := merge.New().WithProvenance(opts.Provenance).Merge(sources)

	sch, err := schema.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("loading configuration schema: %w", err)
	}
	if err := schema.NewValidator(sch).WithStrictMode(true).Validate(result.Data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	return newResolved(projectRoot, tool, discovery, result, diags), nil
}

// overrideSource wraps command line settings as the highest ranked
// source document.
func overrideSource(overrides map[string]any) source.ConfigSource {
	doc := make(map[string]any)
	for path, value := range overrides {
		merge.SetByPath(doc, "quality-tools."+path, value)
	}
	return source.ConfigSource{
		Tier:       source.TierCommandLine,
		Data:       doc,
		ObservedAt: time.Now(),
	}
}
