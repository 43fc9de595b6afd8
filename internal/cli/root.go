package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/qualitytools/qt/internal/config"
)

var (
	flagProjectRoot string
	flagVerbose     bool
	flagNoColor     bool
	flagSet         []string
)

var rootCmd = &cobra.Command{
	Use:   "qt",
	Short: "Configuration-driven quality tool runner for PHP projects",
	Long: `qt resolves a layered configuration for PHP quality tools (rector,
phpstan, php-cs-fixer, typoscript-lint, phplint) and reports where every
setting came from. Sources range from built-in defaults through global,
package and project files up to command-line overrides.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProjectRoot, "project-root", "p", "", "project root directory (defaults to the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringArrayVar(&flagSet, "set", nil, "override a setting (key=value, repeatable)")

	cobra.OnInitialize(initLogger)
}

func initLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: flagNoColor}).
		With().Timestamp().Logger().Level(level)
}

// projectRoot returns the directory configuration is resolved for,
// preferring the flag over the working directory.
func projectRoot() (string, error) {
	if flagProjectRoot != "" {
		return flagProjectRoot, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

// overridesFromFlags parses repeated --set flags into override paths
// keyed relative to the quality-tools document root.
func overridesFromFlags() (map[string]any, error) {
	if len(flagSet) == 0 {
		return nil, nil
	}

	overrides := make(map[string]any, len(flagSet))
	for _, raw := range flagSet {
		key, value, err := parseSetFlag(raw)
		if err != nil {
			return nil, err
		}
		overrides[key] = value
	}
	return overrides, nil
}

func parseSetFlag(raw string) (string, any, error) {
	key, value, found := strings.Cut(raw, "=")
	if !found || key == "" {
		return "", nil, fmt.Errorf("invalid --set %q: expected key=value", raw)
	}
	return normalizeKey(key), parseOverrideValue(value), nil
}

// normalizeKey accepts keys with or without the quality-tools document
// prefix.
func normalizeKey(key string) string {
	return strings.TrimPrefix(key, "quality-tools.")
}

// parseOverrideValue coerces a flag value into the type it would have
// carried in a config file. Integers are tried before booleans so "1"
// stays numeric.
func parseOverrideValue(s string) any {
	if s == "" {
		return s
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	return s
}

// loadResolved resolves configuration for the current invocation. An
// empty tool resolves the full document; a tool name narrows discovery
// to that tool's sources.
func loadResolved(tool string, provenance bool) (*config.ResolvedConfig, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}

	overrides, err := overridesFromFlags()
	if err != nil {
		return nil, err
	}

	opts := config.Options{Provenance: provenance}

	if tool != "" {
		return config.ResolveForTool(root, tool, overrides, opts)
	}
	return config.Resolve(root, overrides, opts)
}

// warnSourceErrors logs discovery diagnostics. Broken files never abort
// resolution, but the operator should know about them.
func warnSourceErrors(cfg *config.ResolvedConfig) {
	for path, msg := range cfg.SourceErrors() {
		log.Warn().Str("file", path).Msg(msg)
	}
}
