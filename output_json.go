package classveil

import (
	"encoding/json"
	"io"
	"time"
)

// JSONBuild is the JSON export schema of a build run
type JSONBuild struct {
	Timestamp string         `json:"timestamp"`
	Source    string         `json:"source"`
	Output    string         `json:"output"`
	MapFile   string         `json:"map_file"`
	Files     map[string]int `json:"files"`
	Skipped   int            `json:"skipped"`
	Classes   int            `json:"classes"`
	Warnings  []string       `json:"warnings"`
}

// JSONRestore is the JSON export schema of a restore run
type JSONRestore struct {
	Timestamp string   `json:"timestamp"`
	Input     string   `json:"input"`
	Output    string   `json:"output"`
	MapFile   string   `json:"map_file"`
	Restored  int      `json:"restored"`
	Formatted int      `json:"formatted"`
	Copied    int      `json:"copied"`
	Classes   int      `json:"classes"`
	Warnings  []string `json:"warnings"`
}

// WriteBuildJSON writes the build result as JSON
func WriteBuildJSON(w io.Writer, result *BuildResult, config Config) error {
	files := make(map[string]int, len(result.Files))
	for kind, n := range result.Files {
		files[string(kind)] = n
	}

	return writeJSON(w, JSONBuild{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Source:    config.SourceDir,
		Output:    config.OutputDir,
		MapFile:   result.MapFile,
		Files:     files,
		Skipped:   result.FilesSkipped,
		Classes:   result.ClassesMapped,
		Warnings:  nonNil(result.Warnings),
	})
}

// WriteRestoreJSON writes the restore result as JSON
func WriteRestoreJSON(w io.Writer, result *RestoreResult, config RestoreConfig) error {
	return writeJSON(w, JSONRestore{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Input:     config.InputDir,
		Output:    config.OutputDir,
		MapFile:   result.MapFile,
		Restored:  result.FilesRestored,
		Formatted: result.FilesFormatted,
		Copied:    result.FilesCopied,
		Classes:   result.ClassesMapped,
		Warnings:  nonNil(result.Warnings),
	})
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// nonNil keeps "warnings": [] instead of null in the export
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
