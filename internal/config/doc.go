// Package config resolves the qt configuration for a project.
//
// The config package discovers configuration sources, merges them by
// precedence, validates the result against the embedded schema, and hands
// the rest of the system an immutable ResolvedConfig with typed accessors
// and provenance queries.
//
// # Precedence
//
// Sources merge in a fixed hierarchy, higher tiers overriding lower:
//
//	┌──────────────────────────────┐
//	│  8. Command Line Overrides   │  ← Highest priority
//	├──────────────────────────────┤
//	│  7. Project Root             │  ← quality-tools.yaml
//	├──────────────────────────────┤
//	│  6. Config Directory         │  ← config/quality-tools.yaml
//	├──────────────────────────────┤
//	│  5. Tool-Specific            │  ← rector.php, phpstan.neon, ...
//	├──────────────────────────────┤
//	│  4. Tool Config Directory    │  ← config/quality-tools.<tool>.yaml
//	├──────────────────────────────┤
//	│  3. Package Configs          │  ← packages/*/quality-tools.yaml
//	├──────────────────────────────┤
//	│  2. User Global              │  ← ~/.config/quality-tools/config.yaml
//	├──────────────────────────────┤
//	│  1. Built-in Defaults        │  ← Lowest priority
//	└──────────────────────────────┘
//
// Scalar collisions resolve by override and record a conflict; nested
// sections merge recursively; path lists union. A tool's own config file
// (tier 5) replaces the unified settings for that tool outright.
//
// # Sub-packages
//
//   - envctx: explicit environment snapshot for resolution
//   - source: precedence tiers, candidate catalog, source discovery
//   - interp: environment-variable interpolation with a security allowlist
//   - loader: file reading and YAML/TOML/JSON parsing
//   - schema: embedded JSON Schema validation and defaults
//   - merge: precedence fold with conflict and provenance tracking
//
// # Basic Usage
//
// Resolve configuration for a project root:
//
//	cfg, err := config.Resolve(root, nil, config.Options{})
//	if err != nil {
//	    return err
//	}
//
//	paths := cfg.Paths()
//	for _, tool := range cfg.Tools() {
//	    if tool.Enabled {
//	        run(tool, paths.Scan)
//	    }
//	}
//
// # Provenance
//
// Diagnostic commands resolve with Options{Provenance: true} and can then
// ask where a value came from:
//
//	ref, _ := cfg.SourceOf("quality-tools.tools.phpstan.level")
//	for _, c := range cfg.ConflictsFor("quality-tools.tools.phpstan.level") {
//	    fmt.Println(c.PreviousSource, "->", c.NewSource)
//	}
//
// # Error Handling
//
// Resolution fails fast: a merged document that violates the schema
// returns ErrValidationFailed rather than a partially valid
// configuration. Per-file problems during discovery (unreadable,
// unparsable, or insecurely interpolated files) skip the file and are
// reported through SourceErrors. Typed accessors never fail; malformed
// values fall back to defaults and land in ConfigErrors.
package config
