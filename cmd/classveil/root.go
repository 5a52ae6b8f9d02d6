package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/classveil/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "classveil",
	Short: "Obfuscate CSS class names across CSS, HTML and JS, reversibly",
	Long: `Rename every CSS class in a source tree to a short random token,
consistently across stylesheets, markup and scripts, and write a class map
that restores the original names later.`,
	// Default behavior: run build when no subcommand is given.
	// We must call loadConfig here because PreRunE of buildCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(cmd, nil)
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logging.SetOutput(os.Stderr)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("format", "text", "Summary format: text|json")
	rootCmd.PersistentFlags().String("config", defaultConfigFile, "Config file path")

	addBuildFlags(rootCmd)

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)

	registerFlagCompletions()
}

// configureLogging applies --verbose and --quiet after config is loaded
func configureLogging() {
	switch {
	case getBoolWithFallback("quiet", "quiet", false):
		logging.SetQuiet()
	default:
		logging.SetVerbose(getBoolWithFallback("verbose", "verbose", false))
	}
}
