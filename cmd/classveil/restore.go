package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/classveil"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore original class names in a built tree",
	Long: `Invert the class map of a built tree, put the original class names
back in every file and re-format CSS, HTML and JS. Files that fail to
format are written unformatted and reported as warnings.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runRestore,
}

func init() {
	f := restoreCmd.Flags()
	f.StringP("input", "i", "dist", "Built directory to restore")
	f.StringP("output", "o", "restored", "Output directory (cleared before writing)")
	f.String("map", "", "Class map path (default: <input>/class-map.json)")
	f.Bool("pretty", true, "Re-format CSS, HTML and JS after restoring")
	f.StringSlice("exclude", nil, "Glob patterns for files to leave out")
	f.Bool("progress", false, "Show a progress bar")
}

func runRestore(_ *cobra.Command, _ []string) error {
	configureLogging()
	config := buildRestoreConfig()

	result, err := classveil.Restore(config)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}
	format := classveil.DetermineOutputFormat(getStringWithFallback("format", "format", "text"))
	useColors := getBoolWithFallback("color", "color", false)
	return classveil.WriteRestoreSummary(os.Stdout, result, config, format, useColors)
}
