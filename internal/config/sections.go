package config

import (
	"fmt"

	"github.com/qualitytools/qt/internal/config/merge"
	"github.com/qualitytools/qt/internal/config/source"
)

// Section accessor methods return snapshot structs. Mutating a returned
// struct does not modify the resolved configuration. Accessors are total:
// an absent or malformed value yields the documented default, and
// malformed values are additionally recorded in ConfigErrors.

// ProjectSettings describes the project being checked.
type ProjectSettings struct {
	// Name is the project name; informational only.
	Name string

	// Type is the project flavor ("typo3", "symfony", "laravel", "generic").
	Type string

	// PHPVersion is the PHP version the project targets, as "major.minor".
	PHPVersion string
}

// PathSettings describes where tools look for code.
type PathSettings struct {
	// Scan lists the directories to check, relative to the project root.
	Scan []string

	// Exclude lists directories no tool should descend into.
	Exclude []string

	// Vendor is the composer vendor directory.
	Vendor string

	// WebRoot is the public web root directory.
	WebRoot string
}

// ToolSettings is the resolved configuration of one external tool.
type ToolSettings struct {
	// Name is the tool name.
	Name string

	// Enabled reports whether the tool runs at all.
	Enabled bool

	// Level is the tool's strictness level rendered as text: a PHP
	// version name for rector, a number for phpstan, empty for tools
	// without levels.
	Level string

	// ConfigFile is the tool's own config file path, when one exists.
	ConfigFile string

	// UseCustomConfig reports whether the tool's own config file fully
	// owns its configuration.
	UseCustomConfig bool

	// Options carries free-form per-tool settings passed through to the
	// tool's command line.
	Options map[string]any
}

// OutputSettings controls how results are rendered.
type OutputSettings struct {
	// Format is the report format ("table", "json", "plain").
	Format string

	// Verbose enables verbose output.
	Verbose bool

	// Colors enables colored output.
	Colors bool

	// ReportDir is where report files are written.
	ReportDir string
}

// PerformanceSettings bound resource usage of tool runs.
type PerformanceSettings struct {
	// Parallel runs tools concurrently when possible.
	Parallel bool

	// MaxProcesses caps concurrent tool processes.
	MaxProcesses int

	// MemoryLimit is the per-process PHP memory limit, like "512M".
	MemoryLimit string

	// MaxMemoryPercent caps total memory use as a share of system memory.
	MaxMemoryPercent int

	// CacheDir is where tools keep their caches.
	CacheDir string
}

// Project returns the resolved project settings.
func (r *ResolvedConfig) Project() ProjectSettings {
	return ProjectSettings{
		Name:       r.getStringOr("quality-tools.project.name", ""),
		Type:       r.getStringOr("quality-tools.project.type", "generic"),
		PHPVersion: r.getStringOr("quality-tools.project.php_version", "8.2"),
	}
}

// Paths returns the resolved path settings.
func (r *ResolvedConfig) Paths() PathSettings {
	return PathSettings{
		Scan:    r.getStringSliceOr("quality-tools.paths.scan", []string{"packages/"}),
		Exclude: r.getStringSliceOr("quality-tools.paths.exclude", []string{"vendor/", "var/", "node_modules/"}),
		Vendor:  r.getStringOr("quality-tools.paths.vendor", "vendor/"),
		WebRoot: r.getStringOr("quality-tools.paths.web_root", "public/"),
	}
}

// ToolConfig returns the resolved settings for one tool. An unsupported
// name yields a zero ToolSettings and records the problem.
func (r *ResolvedConfig) ToolConfig(name string) ToolSettings {
	if !source.IsKnownTool(name) {
		r.recordConfigError("quality-tools.tools."+name, fmt.Errorf("%w: %q", ErrUnknownTool, name))
		return ToolSettings{Name: name}
	}

	prefix := "quality-tools.tools." + name
	return ToolSettings{
		Name:            name,
		Enabled:         r.getBoolOr(prefix+".enabled", defaultToolEnabled(name)),
		Level:           r.levelString(prefix + ".level"),
		ConfigFile:      r.getStringOr(prefix+".config_file", ""),
		UseCustomConfig: r.getBoolOr(prefix+".custom_config", false),
		Options:         r.getMapOr(prefix+".options", nil),
	}
}

// Tools returns the resolved settings of every supported tool, in stable
// order.
func (r *ResolvedConfig) Tools() []ToolSettings {
	names := source.KnownTools()
	out := make([]ToolSettings, 0, len(names))
	for _, name := range names {
		out = append(out, r.ToolConfig(name))
	}
	return out
}

// IsToolEnabled reports whether the named tool should run. Unsupported
// names are never enabled.
func (r *ResolvedConfig) IsToolEnabled(name string) bool {
	if !source.IsKnownTool(name) {
		return false
	}
	return r.getBoolOr("quality-tools.tools."+name+".enabled", defaultToolEnabled(name))
}

// Output returns the resolved output settings.
func (r *ResolvedConfig) Output() OutputSettings {
	return OutputSettings{
		Format:    r.getStringOr("quality-tools.output.format", "table"),
		Verbose:   r.getBoolOr("quality-tools.output.verbose", false),
		Colors:    r.getBoolOr("quality-tools.output.colors", true),
		ReportDir: r.getStringOr("quality-tools.output.report_dir", ".qt/reports"),
	}
}

// Performance returns the resolved performance settings.
func (r *ResolvedConfig) Performance() PerformanceSettings {
	return PerformanceSettings{
		Parallel:         r.getBoolOr("quality-tools.performance.parallel", true),
		MaxProcesses:     r.getIntOr("quality-tools.performance.max_processes", 4),
		MemoryLimit:      r.getStringOr("quality-tools.performance.memory_limit", "512M"),
		MaxMemoryPercent: r.getIntOr("quality-tools.performance.max_memory_percent", 75),
		CacheDir:         r.getStringOr("quality-tools.performance.cache_dir", ".qt/cache"),
	}
}

// defaultToolEnabled returns the built-in enabled state for a supported
// tool. Only typoscript-lint is off by default; it is TYPO3 specific.
func defaultToolEnabled(name string) bool {
	return name != "typoscript-lint"
}

// levelString renders a tool level as text. Rector levels are strings,
// phpstan levels are integers; both come out as text so callers handle
// one shape.
func (r *ResolvedConfig) levelString(path string) string {
	v, ok := r.Get(path)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case int, int64, uint64, float64:
		return fmt.Sprint(val)
	default:
		r.recordConfigError(path, &TypeError{Path: path, Expected: "string or int", Actual: typeName(v)})
		return ""
	}
}

// Helper methods for getting values with defaults.
// These return the default for ErrSettingNotFound. Type errors also
// return the default, to keep accessors total, but are recorded because
// they indicate a configuration problem.

func (r *ResolvedConfig) getStringOr(path string, defaultValue string) string {
	v, err := r.GetString(path)
	if err != nil {
		if err != ErrSettingNotFound {
			r.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (r *ResolvedConfig) getIntOr(path string, defaultValue int) int {
	v, err := r.GetInt(path)
	if err != nil {
		if err != ErrSettingNotFound {
			r.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (r *ResolvedConfig) getBoolOr(path string, defaultValue bool) bool {
	v, err := r.GetBool(path)
	if err != nil {
		if err != ErrSettingNotFound {
			r.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (r *ResolvedConfig) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := r.GetStringSlice(path)
	if err != nil {
		if err != ErrSettingNotFound {
			r.recordConfigError(path, err)
		}
		result := make([]string, len(defaultValue))
		copy(result, defaultValue)
		return result
	}
	return v
}

func (r *ResolvedConfig) getMapOr(path string, defaultValue map[string]any) map[string]any {
	v, ok := r.Get(path)
	if !ok {
		return merge.CloneMap(defaultValue)
	}
	m, isMap := v.(map[string]any)
	if !isMap {
		r.recordConfigError(path, &TypeError{Path: path, Expected: "map", Actual: typeName(v)})
		return merge.CloneMap(defaultValue)
	}
	return m
}
