package classveil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/yacobolo/classveil/internal/classveil"
	"github.com/yacobolo/classveil/internal/logging"
)

// Restore rebuilds original class names in a built tree using its class
// map and re-formats the result. Formatting failures are warnings; an
// unreadable or non-invertible map aborts before any output is written.
func Restore(config RestoreConfig) (*RestoreResult, error) {
	if !isDir(config.InputDir) {
		return nil, &classveil.OpError{Op: "restore", Kind: classveil.KindConfig, Path: config.InputDir,
			Err: classveil.ErrSourceNotFound}
	}
	if err := checkOutputDir(config.InputDir, config.OutputDir); err != nil {
		return nil, err
	}
	mapFile := config.MapFile
	if mapFile == "" {
		mapFile = filepath.Join(config.InputDir, classveil.ArtifactName)
	}

	// 1. Load and invert the map
	pairs, err := classveil.ReadArtifact(mapFile)
	if err != nil {
		return nil, err
	}
	restorer, err := classveil.NewRestorer(pairs)
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", config.InputDir, err)
	}

	// 2. Discover files, leaving the map itself out
	files, _, err := ScanTree(config.InputDir, ScanOptions{
		Excludes:  config.Excludes,
		SkipPaths: []string{mapFile, config.OutputDir},
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	if err := resetDir(config.OutputDir); err != nil {
		return nil, err
	}

	result := &RestoreResult{
		ClassesMapped: len(pairs),
		MapFile:       mapFile,
	}

	var progress *logging.Progress
	if config.Progress {
		progress = logging.NewProgress(os.Stderr, len(files), "Restoring")
	}
	for _, file := range files {
		if err := restoreFile(restorer, file, config, result); err != nil {
			logging.Error("Restore stopped at %s, %s is incomplete", file.RelPath, config.OutputDir)
			return nil, err
		}
		progress.Add()
	}
	progress.Complete()
	logging.Info("Restored %d files into %s", result.FilesRestored+result.FilesCopied, config.OutputDir)

	return result, nil
}

// restoreFile substitutes and formats one file. Binary files are copied.
func restoreFile(restorer *classveil.Restorer, file SourceFile, config RestoreConfig, result *RestoreResult) error {
	dst := filepath.Join(config.OutputDir, filepath.FromSlash(file.RelPath))

	// #nosec G304 - path comes from walking the configured input tree
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return &classveil.OpError{Op: "read", Kind: classveil.KindIO, Path: file.Path, Err: err}
	}

	if !isText(content) {
		if err := copyFile(file.Path, dst); err != nil {
			return err
		}
		result.FilesCopied++
		return nil
	}

	var output string
	if config.Format && file.Kind != classveil.Verbatim {
		restored, err := restorer.Restore(file.Kind, string(content))
		if err != nil {
			msg := fmt.Sprintf("could not format %s: %v", file.RelPath, err)
			logging.Warn("%s", msg)
			result.Warnings = append(result.Warnings, msg)
		} else {
			result.FilesFormatted++
		}
		output = restored
	} else if file.Kind == classveil.Stylesheet {
		output = restorer.SubstituteCSS(string(content))
	} else if file.Kind == classveil.Markup {
		output = restorer.SubstituteMarkup(string(content))
	} else {
		output = restorer.Substitute(string(content))
	}

	if err := writeFile(dst, []byte(output)); err != nil {
		return err
	}
	result.FilesRestored++
	logging.WithFile(file.RelPath).Debug("Restored")
	return nil
}

// isText reports whether content looks like UTF-8 text
func isText(content []byte) bool {
	return utf8.Valid(content) && !bytes.ContainsRune(content, 0)
}
