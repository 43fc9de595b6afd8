package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/qualitytools/qt/internal/config/schema"
)

var (
	flagShowTool    string
	flagShowSources bool
	flagShowFormat  string
)

func init() {
	configShowCmd.Flags().StringVar(&flagShowTool, "tool", "", "narrow discovery to one tool's sources")
	configShowCmd.Flags().BoolVar(&flagShowSources, "sources", false, "annotate every setting with its source")
	configShowCmd.Flags().StringVar(&flagShowFormat, "format", "yaml", "output format (yaml, json)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSourcesCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configOriginCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Resolves all configuration sources for the project and prints the
merged document. With --sources every setting is annotated with the
source that provided its final value.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadResolved(flagShowTool, flagShowSources)
	if err != nil {
		return err
	}
	warnSourceErrors(cfg)

	data := cfg.Data()

	var out []byte
	switch flagShowFormat {
	case "yaml":
		out, err = yaml.Marshal(data)
	case "json":
		out, err = json.MarshalIndent(data, "", "  ")
	default:
		return fmt.Errorf("unknown output format %q (yaml, json)", flagShowFormat)
	}
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	fmt.Print(string(out))
	if flagShowFormat == "json" {
		fmt.Println()
	}

	if flagShowSources {
		fmt.Println()
		fmt.Println("Origins:")
		for _, path := range leafPaths(data) {
			if ref, ok := cfg.SourceOf(path); ok {
				fmt.Printf("  %-55s %s\n", path, ref)
			}
		}
	}

	return nil
}

var configSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List discovered configuration sources",
	Long: `Shows every source that contributed to the resolved configuration,
in merge order, together with any files that were discovered but could
not be used.`,
	Args: cobra.NoArgs,
	RunE: runConfigSources,
}

func runConfigSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadResolved("", true)
	if err != nil {
		return err
	}

	summary := cfg.Summary()

	fmt.Printf("%-6s %-18s %-8s %-15s %s\n", "RANK", "TIER", "FORMAT", "TOOL", "PATH")
	for _, src := range summary.Sources {
		format := string(src.Format)
		if format == "" {
			format = "-"
		}
		tool := src.Tool
		if tool == "" {
			tool = "-"
		}
		path := src.Path
		if path == "" {
			path = "<built-in>"
		}
		fmt.Printf("%-6d %-18s %-8s %-15s %s\n", src.Rank, src.Tier, format, tool, path)
	}

	if len(summary.ConflictCount) > 0 {
		fmt.Println()
		fmt.Println("Conflicts:")
		keys := make([]string, 0, len(summary.ConflictCount))
		for key := range summary.ConflictCount {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("  %-55s %d\n", key, summary.ConflictCount[key])
		}
	}

	if errs := cfg.SourceErrors(); len(errs) > 0 {
		fmt.Println()
		fmt.Println("Problems:")
		paths := make([]string, 0, len(errs))
		for path := range errs {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			fmt.Printf("  %s: %s\n", path, errs[path])
		}
	}

	return nil
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the merged configuration against the schema",
	Long: `Resolves all sources and validates the merged document. Reports one
line per offending setting and exits non-zero when the configuration is
invalid.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadResolved("", false)
	if err != nil {
		var verrs *schema.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs.Errors {
				fmt.Printf("%s: %s\n", ve.Path, ve.Message)
			}
			return fmt.Errorf("%d validation error(s)", len(verrs.Errors))
		}
		return err
	}

	for path, msg := range cfg.SourceErrors() {
		fmt.Printf("%s: WARNING - %s\n", path, msg)
	}

	log.Debug().Str("root", cfg.ProjectRoot()).Msg("merged document valid")
	fmt.Printf("configuration valid (%d sources)\n", len(cfg.Summary().Sources))

	return nil
}

var configOriginCmd = &cobra.Command{
	Use:   "origin KEY",
	Short: "Show where a setting's value came from",
	Long: `Reports the winning source for one setting, every source that set it
during merging, and any conflicts recorded along the way. Keys may be
given with or without the quality-tools prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigOrigin,
}

func runConfigOrigin(cmd *cobra.Command, args []string) error {
	cfg, err := loadResolved("", true)
	if err != nil {
		return err
	}

	key := args[0]
	if key != "quality-tools" && !strings.HasPrefix(key, "quality-tools.") {
		key = "quality-tools." + key
	}

	value, ok := cfg.Get(key)
	conflicts := cfg.ConflictsFor(key)
	if !ok && len(conflicts) == 0 {
		return fmt.Errorf("no value resolved at %q", key)
	}

	fmt.Printf("key:    %s\n", key)
	if ok {
		fmt.Printf("value:  %s\n", renderValue(value))
	}

	if ref, found := cfg.SourceOf(key); found {
		fmt.Printf("source: %s\n", ref)
	} else if _, isMap := value.(map[string]any); isMap {
		fmt.Println("source: (section; per-key origins below it)")
	}

	if chain := cfg.FullChain(key); len(chain) > 0 {
		fmt.Println("chain:")
		for i, ref := range chain {
			fmt.Printf("  %d. %s\n", i+1, ref)
		}
	}

	if len(conflicts) > 0 {
		fmt.Println("conflicts:")
		for _, c := range conflicts {
			fmt.Printf("  %s overrode %s (%s -> %s)\n",
				c.NewSource, c.PreviousSource,
				renderValue(c.PreviousValue), renderValue(c.NewValue))
		}
	}

	return nil
}

// renderValue prints scalars bare and composites as compact JSON.
func renderValue(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(out)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// leafPaths lists every leaf key path in the document, sorted.
func leafPaths(data map[string]any) []string {
	var paths []string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for key, val := range m {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			if child, ok := val.(map[string]any); ok && len(child) > 0 {
				walk(path, child)
				continue
			}
			paths = append(paths, path)
		}
	}
	walk("", data)
	sort.Strings(paths)
	return paths
}
