package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(toolsCmd)
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List supported tools and their resolved state",
	Long: `Shows every supported quality tool with its enabled state, level, and
configuration file. Tools owned by a native config file in the project
are marked as native.`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadResolved("", false)
	if err != nil {
		return err
	}
	warnSourceErrors(cfg)

	tools := cfg.Tools()
	log.Debug().Int("tools", len(tools)).Str("root", cfg.ProjectRoot()).Msg("resolved tool settings")

	fmt.Printf("%-18s %-8s %-8s %s\n", "TOOL", "ENABLED", "LEVEL", "CONFIG")
	for _, tool := range tools {
		enabled := "no"
		if tool.Enabled {
			enabled = "yes"
		}

		level := tool.Level
		if level == "" {
			level = "-"
		}

		configFile := tool.ConfigFile
		if path, ok := cfg.ToolOverridePath(tool.Name); ok {
			configFile = path + " (native)"
		}
		if configFile == "" {
			configFile = "-"
		}

		fmt.Printf("%-18s %-8s %-8s %s\n", tool.Name, enabled, level, configFile)
	}

	return nil
}
