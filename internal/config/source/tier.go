// Package source models where configuration comes from.
//
// The source package carries the fixed precedence hierarchy (tiers), the
// catalog of candidate file locations for a project root, and the
// discovery pass that probes the catalog and loads every source that
// exists. Higher tiers override values from lower tiers during merging.
package source

// Tier identifies one named level of the configuration precedence
// hierarchy. The order is total and never changes at runtime.
type Tier uint8

const (
	// TierPackageDefaults is the built-in baseline document.
	TierPackageDefaults Tier = iota
	// TierGlobal is the user's home-directory configuration.
	TierGlobal
	// TierPackageConfig covers monorepo sibling-package files (packages/*/).
	TierPackageConfig
	// TierToolConfigDir covers per-tool files under config/.
	TierToolConfigDir
	// TierToolSpecific covers a tool's own config file at the project root.
	TierToolSpecific
	// TierConfigDir is the unified document under config/.
	TierConfigDir
	// TierProjectRoot is the unified document at the project root.
	TierProjectRoot
	// TierCommandLine holds overrides supplied by the invoking command.
	TierCommandLine
)

// String returns the tier's name as it appears in provenance output.
func (t Tier) String() string {
	switch t {
	case TierPackageDefaults:
		return "package_defaults"
	case TierGlobal:
		return "global"
	case TierPackageConfig:
		return "package_config"
	case TierToolConfigDir:
		return "tool_config_dir"
	case TierToolSpecific:
		return "tool_specific"
	case TierConfigDir:
		return "config_dir"
	case TierProjectRoot:
		return "project_root"
	case TierCommandLine:
		return "command_line"
	default:
		return "unknown"
	}
}

// Precedence ranks per tier. Merging folds sources in ascending rank
// order, so higher ranks override lower ones.
const (
	RankPackageDefaults = 0
	RankGlobal          = 100
	RankPackageConfig   = 200
	RankToolConfigDir   = 300
	RankToolSpecific    = 400
	RankConfigDir       = 500
	RankProjectRoot     = 600
	RankCommandLine     = 1000
)

// Rank returns the merge precedence rank for the tier.
func (t Tier) Rank() int {
	switch t {
	case TierPackageDefaults:
		return RankPackageDefaults
	case TierGlobal:
		return RankGlobal
	case TierPackageConfig:
		return RankPackageConfig
	case TierToolConfigDir:
		return RankToolConfigDir
	case TierToolSpecific:
		return RankToolSpecific
	case TierConfigDir:
		return RankConfigDir
	case TierProjectRoot:
		return RankProjectRoot
	case TierCommandLine:
		return RankCommandLine
	default:
		return RankPackageDefaults
	}
}
