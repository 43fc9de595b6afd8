package source

import "path/filepath"

// knownTools lists the external tools qt drives, in stable order.
var knownTools = []string{"rector", "phpstan", "php-cs-fixer", "typoscript-lint", "phplint"}

// KnownTools returns the names of the supported tools.
func KnownTools() []string {
	return append([]string(nil), knownTools...)
}

// IsKnownTool reports whether name is a supported tool.
func IsKnownTool(name string) bool {
	for _, tool := range knownTools {
		if tool == name {
			return true
		}
	}
	return false
}

// unifiedBasenames are the accepted file names for the unified document at
// the project root, in probe order.
var unifiedBasenames = []string{
	"quality-tools.yaml",
	"quality-tools.yml",
	".quality-tools.yaml",
	"quality-tools.toml",
	"quality-tools.json",
}

// configDirBasenames are the accepted unified file names under config/.
var configDirBasenames = []string{
	"quality-tools.yaml",
	"quality-tools.yml",
	"quality-tools.toml",
	"quality-tools.json",
}

// nativeConfigNames maps each tool to its own config file names, in probe
// order. Native files are accepted as opaque override markers; their
// contents belong to the tool and are never parsed here.
var nativeConfigNames = map[string][]string{
	"rector":          {"rector.php"},
	"phpstan":         {"phpstan.neon", "phpstan.neon.dist"},
	"php-cs-fixer":    {".php-cs-fixer.php", ".php-cs-fixer.dist.php"},
	"typoscript-lint": {"typoscript-lint.yml"},
	"phplint":         {".phplint.yml"},
}

// globalBasenames are the accepted file names of the user's global
// configuration, relative to the home directory.
var globalBasenames = []string{
	filepath.Join(".config", "quality-tools", "config.yaml"),
	filepath.Join(".config", "quality-tools", "config.yml"),
	filepath.Join(".config", "quality-tools", "config.toml"),
}

// packageGlobs match monorepo sibling-package configs, relative to the
// project root.
var packageGlobs = []string{
	filepath.Join("packages", "*", "quality-tools.yaml"),
	filepath.Join("packages", "*", "quality-tools.yml"),
}

// Candidate is one potential configuration file location.
type Candidate struct {
	// Path is the location to probe.
	Path string

	// Tier is where a source found at this location slots into the
	// hierarchy.
	Tier Tier

	// Tool is set for tool-scoped candidates.
	Tool string

	// Native marks a tool's own config format: accepted as an opaque
	// override marker, never structurally parsed.
	Native bool
}

// Catalog describes every location configuration may come from for one
// project root. Building and querying it performs no I/O.
type Catalog struct {
	root string
}

// NewCatalog creates the catalog for a project root.
func NewCatalog(root string) *Catalog {
	return &Catalog{root: filepath.Clean(root)}
}

// Root returns the project root the catalog was built for.
func (c *Catalog) Root() string {
	return c.root
}

// ProjectRoot returns the unified document candidates at the project
// root, in probe order. The first existing file wins the tier.
func (c *Catalog) ProjectRoot() []Candidate {
	out := make([]Candidate, 0, len(unifiedBasenames))
	for _, base := range unifiedBasenames {
		out = append(out, Candidate{
			Path: filepath.Join(c.root, base),
			Tier: TierProjectRoot,
		})
	}
	return out
}

// ConfigDir returns the unified document candidates under config/, in
// probe order. The first existing file wins the tier.
func (c *Catalog) ConfigDir() []Candidate {
	out := make([]Candidate, 0, len(configDirBasenames))
	for _, base := range configDirBasenames {
		out = append(out, Candidate{
			Path: filepath.Join(c.root, "config", base),
			Tier: TierConfigDir,
		})
	}
	return out
}

// ToolSpecific returns the native config candidates for one tool at the
// project root, in probe order.
func (c *Catalog) ToolSpecific(tool string) []Candidate {
	names := nativeConfigNames[tool]
	out := make([]Candidate, 0, len(names))
	for _, base := range names {
		out = append(out, Candidate{
			Path:   filepath.Join(c.root, base),
			Tier:   TierToolSpecific,
			Tool:   tool,
			Native: true,
		})
	}
	return out
}

// ToolConfigDir returns the per-tool candidates under config/, in probe
// order: the unified per-tool fragment first, then the tool's native
// names.
func (c *Catalog) ToolConfigDir(tool string) []Candidate {
	names := nativeConfigNames[tool]
	out := make([]Candidate, 0, len(names)+2)
	for _, ext := range []string{".yaml", ".yml"} {
		out = append(out, Candidate{
			Path: filepath.Join(c.root, "config", "quality-tools."+tool+ext),
			Tier: TierToolConfigDir,
			Tool: tool,
		})
	}
	for _, base := range names {
		out = append(out, Candidate{
			Path:   filepath.Join(c.root, "config", base),
			Tier:   TierToolConfigDir,
			Tool:   tool,
			Native: true,
		})
	}
	return out
}

// PackageConfigGlobs returns the glob patterns for sibling-package
// configs, in probe order.
func (c *Catalog) PackageConfigGlobs() []string {
	out := make([]string, 0, len(packageGlobs))
	for _, glob := range packageGlobs {
		out = append(out, filepath.Join(c.root, glob))
	}
	return out
}

// Global returns the user-global candidates for a home directory, in
// probe order. An empty home yields no candidates.
func (c *Catalog) Global(home string) []Candidate {
	if home == "" {
		return nil
	}
	out := make([]Candidate, 0, len(globalBasenames))
	for _, base := range globalBasenames {
		out = append(out, Candidate{
			Path: filepath.Join(home, base),
			Tier: TierGlobal,
		})
	}
	return out
}
