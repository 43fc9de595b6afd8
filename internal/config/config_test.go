package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/qualitytools/qt/internal/config/envctx"
	"github.com/qualitytools/qt/internal/config/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error = %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

// testOptions keeps resolution off the real process environment so the
// developer's own ~/.config/quality-tools never leaks into tests.
func testOptions() Options {
	return Options{Environment: envctx.New(nil, ""), Provenance: true}
}

func TestResolveEmptyProjectGivesDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Resolve(root, nil, testOptions())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if got := cfg.Project().Type; got != "generic" {
		t.Errorf("Project().Type = %q, want %q", got, "generic")
	}
	if got := cfg.Paths().Scan; !reflect.DeepEqual(got, []string{"packages/"}) {
		t.Errorf("Paths().Scan = %v, want [packages/]", got)
	}
	if got := cfg.ToolConfig("phpstan").Level; got != "6" {
		t.Errorf("phpstan level = %q, want %q", got, "6")
	}
	if got := cfg.ToolConfig("rector").Level; got != "php82" {
		t.Errorf("rector level = %q, want %q", got, "php82")
	}
	if !cfg.IsToolEnabled("rector") {
		t.Error("IsToolEnabled(rector) = false, want true by default")
	}
	if cfg.IsToolEnabled("typoscript-lint") {
		t.Error("IsToolEnabled(typoscript-lint) = true, want false by default")
	}
	if got := cfg.Performance().MaxProcesses; got != 4 {
		t.Errorf("Performance().MaxProcesses = %d, want 4", got)
	}
	if got := cfg.Output().Format; got != "table" {
		t.Errorf("Output().Format = %q, want %q", got, "table")
	}

	// Every value traces back to the built-in defaults.
	ref, ok := cfg.SourceOf("quality-tools.tools.phpstan.level")
	if !ok {
		t.Fatal("SourceOf(quality-tools.tools.phpstan.level) missing")
	}
	if ref.Tier != source.TierPackageDefaults {
		t.Errorf("SourceOf tier = %v, want %v", ref.Tier, source.TierPackageDefaults)
	}
	if len(cfg.Conflicts()) != 0 {
		t.Errorf("Conflicts() = %v, want none from defaults alone", cfg.Conflicts())
	}
}

func TestResolveProjectFileOverrides(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "quality-tools.yaml"), `quality-tools:
  paths:
    scan:
      - src/
  tools:
    phpstan:
      level: 8
  output:
    format: json
`)

	cfg, err := Resolve(root, nil, testOptions())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if got := cfg.ToolConfig("phpstan").Level; got != "8" {
		t.Errorf("phpstan level = %q, want %q", got, "8")
	}
	if got := cfg.Output().Format; got != "json" {
		t.Errorf("Output().Format = %q, want %q", got, "json")
	}
	// Path lists union across tiers rather than replacing.
	if got := cfg.Paths().Scan; !reflect.DeepEqual(got, []string{"packages/", "src/"}) {
		t.Errorf("Paths().Scan = %v, want [packages/ src/]", got)
	}

	const key = "quality-tools.tools.phpstan.level"
	conflicts := cfg.ConflictsFor(key)
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts for %s, want 1", len(conflicts), key)
	}
	if conflicts[0].Winner.Tier != source.TierProjectRoot {
		t.Errorf("conflict winner tier = %v, want %v", conflicts[0].Winner.Tier, source.TierProjectRoot)
	}
	if conflicts[0].PreviousSource.Tier != source.TierPackageDefaults {
		t.Errorf("conflict previous tier = %v, want %v", conflicts[0].PreviousSource.Tier, source.TierPackageDefaults)
	}
	if !cfg.WasOverridden(key) {
		t.Error("WasOverridden = false after a project file override")
	}
}

func TestResolveCommandLineOverridesWinLast(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "quality-tools.yaml"), `quality-tools:
  tools:
    phpstan:
      level: 8
`)

	overrides := map[string]any{
		"tools.phpstan.level": 2,
		"output.verbose":      true,
	}
	cfg, err := Resolve(root, overrides, testOptions())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if got := cfg.ToolConfig("phpstan").Level; got != "2" {
		t.Errorf("phpstan level = %q, want the command line value %q", got, "2")
	}
	if !cfg.Output().Verbose {
		t.Error("Output().Verbose = false, want the command line value true")
	}
	if ref, _ := cfg.SourceOf("quality-tools.tools.phpstan.level"); ref.Tier != source.TierCommandLine {
		t.Errorf("SourceOf tier = %v, want %v", ref.Tier, source.TierCommandLine)
	}
}

func TestResolveFailsFastOnInvalidMergedDocument(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "quality-tools.yaml"), `quality-tools:
  tools:
    phpstan:
      level: 42
`)

	cfg, err := Resolve(root, nil, testOptions())
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Resolve() error = %v, want ErrValidationFailed", err)
	}
	if cfg != nil {
		t.Error("Resolve() returned a config alongside a validation failure")
	}
}

func TestResolveRejectsInvalidOverrides(t *testing.T) {
	root := t.TempDir()

	_, err := Resolve(root, map[string]any{"output.format": "xml"}, testOptions())
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Resolve() error = %v, want ErrValidationFailed", err)
	}
}

func TestResolveMissingProjectRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := Resolve(root, nil, testOptions())
	if !errors.Is(err, ErrProjectRootNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrProjectRootNotFound", err)
	}
}

func TestResolveForToolRejectsUnknownTool(t *testing.T) {
	root := t.TempDir()

	_, err := ResolveForTool(root, "eslint", nil, testOptions())
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("ResolveForTool() error = %v, want ErrUnknownTool", err)
	}
}

func TestResolveForToolScopesSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "rector.php"), "<?php return [];\n")
	writeFile(t, filepath.Join(root, "phpstan.neon"), "parameters:\n  level: 9\n")

	cfg, err := ResolveForTool(root, "phpstan", nil, testOptions())
	if err != nil {
		t.Fatalf("ResolveForTool() error = %v", err)
	}

	if cfg.Tool() != "phpstan" {
		t.Errorf("Tool() = %q, want %q", cfg.Tool(), "phpstan")
	}
	if !cfg.HasToolOverride("phpstan") {
		t.Error("HasToolOverride(phpstan) = false with phpstan.neon present")
	}
	// The rector file was never probed in a phpstan-scoped resolution.
	if cfg.HasToolOverride("rector") {
		t.Error("HasToolOverride(rector) = true in a phpstan-scoped resolution")
	}
	if !cfg.ToolConfig("phpstan").UseCustomConfig {
		t.Error("phpstan UseCustomConfig = false with a native config present")
	}
}

func TestResolveToolOverrideMarker(t *testing.T) {
	root := t.TempDir()
	native := filepath.Join(root, "rector.php")
	writeFile(t, native, "<?php return [];\n")

	cfg, err := Resolve(root, nil, testOptions())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	rector := cfg.ToolConfig("rector")
	if !rector.UseCustomConfig {
		t.Error("rector UseCustomConfig = false with rector.php present")
	}
	if rector.ConfigFile != native {
		t.Errorf("rector ConfigFile = %q, want %q", rector.ConfigFile, native)
	}
	// The marker replaced the defaults subtree, so the level is gone.
	if rector.Level != "" {
		t.Errorf("rector Level = %q, want empty after a native override", rector.Level)
	}
	if !cfg.HasToolOverride("rector") {
		t.Error("HasToolOverride(rector) = false")
	}
	if path, _ := cfg.ToolOverridePath("rector"); path != native {
		t.Errorf("ToolOverridePath(rector) = %q, want %q", path, native)
	}
	if !cfg.WasOverridden("quality-tools.tools.rector") {
		t.Error("WasOverridden(quality-tools.tools.rector) = false after a native override")
	}
}

func TestResolveHigherTiersMergeOverMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "rector.php"), "<?php return [];\n")
	writeFile(t, filepath.Join(root, "quality-tools.yaml"), `quality-tools:
  tools:
    rector:
      level: php83
`)

	cfg, err := Resolve(root, nil, testOptions())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	rector := cfg.ToolConfig("rector")
	if !rector.UseCustomConfig {
		t.Error("rector UseCustomConfig = false; the project file must not clear the marker")
	}
	if rector.Level != "php83" {
		t.Errorf("rector Level = %q, want the project root value %q", rector.Level, "php83")
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".config", "quality-tools", "config.yaml"),
		"quality-tools:\n  output:\n    colors: false\n")
	writeFile(t, filepath.Join(root, "quality-tools.yaml"),
		"quality-tools:\n  tools:\n    phpstan:\n      level: 3\n")
	writeFile(t, filepath.Join(root, "packages", "api", "quality-tools.yaml"),
		"quality-tools:\n  paths:\n    scan:\n      - src/\n")

	opts := Options{Environment: envctx.New(nil, home), Provenance: true}

	a, err := Resolve(root, nil, opts)
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	b, err := Resolve(root, nil, opts)
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}

	if !reflect.DeepEqual(a.Data(), b.Data()) {
		t.Error("two resolutions of the same tree differ")
	}
	if !reflect.DeepEqual(a.Conflicts(), b.Conflicts()) {
		t.Error("two resolutions recorded different conflicts")
	}
}

func TestResolveSummaryListsSourcesInFoldOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "quality-tools.yaml"),
		"quality-tools:\n  output:\n    verbose: true\n")

	cfg, err := Resolve(root, map[string]any{"output.colors": false}, testOptions())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	summary := cfg.Summary()
	if len(summary.Sources) != 3 {
		t.Fatalf("summary lists %d sources, want defaults, project file, and overrides", len(summary.Sources))
	}
	wantTiers := []source.Tier{source.TierPackageDefaults, source.TierProjectRoot, source.TierCommandLine}
	for i, want := range wantTiers {
		if summary.Sources[i].Tier != want {
			t.Errorf("summary source %d tier = %v, want %v", i, summary.Sources[i].Tier, want)
		}
	}
}

func TestResolveReportsSourceErrors(t *testing.T) {
	root := t.TempDir()
	broken := filepath.Join(root, "config", "quality-tools.yaml")
	writeFile(t, broken, "quality-tools: [unclosed\n")

	cfg, err := Resolve(root, nil, testOptions())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	errs := cfg.SourceErrors()
	if errs[broken] == "" {
		t.Errorf("SourceErrors() = %v, want an entry for %s", errs, broken)
	}
}

func TestResolveWithoutProvenance(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "quality-tools.yaml"),
		"quality-tools:\n  tools:\n    phpstan:\n      level: 8\n")

	cfg, err := Resolve(root, nil, Options{Environment: envctx.New(nil, "")})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if got := cfg.ToolConfig("phpstan").Level; got != "8" {
		t.Errorf("phpstan level = %q, want %q", got, "8")
	}
	if _, ok := cfg.SourceOf("quality-tools.tools.phpstan.level"); ok {
		t.Error("SourceOf() reported attribution without provenance tracking")
	}
	if chain := cfg.FullChain("quality-tools.tools.phpstan.level"); chain != nil {
		t.Errorf("FullChain() = %v, want nil without provenance tracking", chain)
	}
	if got := cfg.Conflicts(); len(got) != 0 {
		t.Errorf("Conflicts() = %v, want none without provenance tracking", got)
	}
}
