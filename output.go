package classveil

import (
	"fmt"
	"io"

	"github.com/yacobolo/classveil/internal/classveil"
)

// OutputFormat represents the summary output format
type OutputFormat string

const (
	// OutputText prints a short human-readable summary
	OutputText OutputFormat = "text"
	// OutputJSON exports structured data for tooling
	OutputJSON OutputFormat = "json"
)

// DetermineOutputFormat maps a flag value to an OutputFormat, defaulting to
// text for unknown values
func DetermineOutputFormat(formatFlag string) OutputFormat {
	switch formatFlag {
	case "json":
		return OutputJSON
	default:
		return OutputText
	}
}

// WriteBuildSummary writes the build result in the given format
func WriteBuildSummary(w io.Writer, result *BuildResult, config Config, format OutputFormat, useColors bool) error {
	if format == OutputJSON {
		return WriteBuildJSON(w, result, config)
	}

	fmt.Fprintf(w, "%s %s\n",
		classveil.RenderStyle(classveil.StyleSuccess, "Built", useColors),
		classveil.RenderStyle(classveil.StyleHeader, config.OutputDir, useColors))
	for _, kind := range classveil.KindOrder {
		if n := result.Files[kind]; n > 0 {
			fmt.Fprintf(w, "  %-11s %s\n", kind+":",
				classveil.RenderStyle(classveil.StyleMuted, fmt.Sprint(n), useColors))
		}
	}
	if result.FilesSkipped > 0 {
		fmt.Fprintf(w, "  %-11s %d\n", "skipped:", result.FilesSkipped)
	}
	fmt.Fprintf(w, "  Classes mapped: %d (%s)\n", result.ClassesMapped, result.MapFile)

	writeWarnings(w, result.Warnings, useColors)
	return nil
}

// WriteRestoreSummary writes the restore result in the given format
func WriteRestoreSummary(w io.Writer, result *RestoreResult, config RestoreConfig, format OutputFormat, useColors bool) error {
	if format == OutputJSON {
		return WriteRestoreJSON(w, result, config)
	}

	fmt.Fprintf(w, "%s %s\n",
		classveil.RenderStyle(classveil.StyleSuccess, "Restored", useColors),
		classveil.RenderStyle(classveil.StyleHeader, config.OutputDir, useColors))
	fmt.Fprintf(w, "  Files restored:  %d\n", result.FilesRestored)
	fmt.Fprintf(w, "  Files formatted: %d\n", result.FilesFormatted)
	if result.FilesCopied > 0 {
		fmt.Fprintf(w, "  Binary copies:   %d\n", result.FilesCopied)
	}
	fmt.Fprintf(w, "  Classes mapped:  %d (%s)\n", result.ClassesMapped, result.MapFile)

	writeWarnings(w, result.Warnings, useColors)
	return nil
}

// WriteClassTable lists every original -> replacement entry of a build, in
// map order
func WriteClassTable(w io.Writer, pairs []classveil.Pair, useColors bool) {
	if len(pairs) == 0 {
		return
	}
	width := 0
	for _, p := range pairs {
		width = max(width, len(p.Original))
	}

	fmt.Fprintf(w, "\n%s\n", classveil.RenderStyle(classveil.StyleHeader, "Class map:", useColors))
	for _, p := range pairs {
		fmt.Fprintf(w, "  %-*s  %s\n", width, p.Original,
			classveil.RenderStyle(classveil.StyleMuted, p.Replacement, useColors))
	}
}

func writeWarnings(w io.Writer, warnings []string, useColors bool) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", classveil.RenderStyle(classveil.StyleWarning, "Warnings:", useColors))
	for _, msg := range warnings {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
}
