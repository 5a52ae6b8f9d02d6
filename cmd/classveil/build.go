package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/classveil"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"obfuscate"},
	Short:   "Rename CSS classes and write the class map",
	Long: `Copy the source tree to the output tree, renaming every CSS class in
stylesheets, class attributes and string literals, minifying CSS/HTML/JS,
and writing class-map.json at the output root.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

// addBuildFlags registers build flags on cmd (build and the root default)
func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("source", "s", "src", "Source directory")
	f.StringP("output", "o", "dist", "Output directory (cleared before writing)")
	f.String("map", "", "Class map path (default: <output>/class-map.json)")
	f.String("prefix", "x", "Prefix of generated class names")
	f.Int("length", 6, "Random characters after the prefix")
	f.Int("max-attempts", 1000, "Attempts to find an unused class name before giving up")
	f.Bool("minify", true, "Minify CSS, HTML and JS output")
	f.Bool("strict-literals", false, "Only rewrite JS literals made entirely of class names")
	f.StringSlice("exclude", nil, "Glob patterns for files to leave out")
	f.StringSlice("verbatim", nil, "Glob patterns for files to copy unchanged")
	f.Bool("gitignore", false, "Skip files ignored by <source>/.gitignore")
	f.Bool("progress", false, "Show a progress bar")
}

func runBuild(_ *cobra.Command, _ []string) error {
	configureLogging()
	config := buildBuildConfig()

	result, err := classveil.Build(config)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}
	format := classveil.DetermineOutputFormat(getStringWithFallback("format", "format", "text"))
	useColors := getBoolWithFallback("color", "color", false)
	if err := classveil.WriteBuildSummary(os.Stdout, result, config, format, useColors); err != nil {
		return err
	}
	if format == classveil.OutputText && getBoolWithFallback("verbose", "verbose", false) {
		classveil.WriteClassTable(os.Stdout, result.Pairs, useColors)
	}
	return nil
}
