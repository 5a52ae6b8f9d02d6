package classveil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yacobolo/classveil/internal/classveil"
	"github.com/yacobolo/classveil/internal/logging"
)

// Build is the main entry point: it rewrites the source tree into the
// output tree and writes the class map.
func Build(config Config) (*BuildResult, error) {
	config = config.withDefaults()

	// 1. Validate directories before touching any output
	if !isDir(config.SourceDir) {
		return nil, &classveil.OpError{Op: "build", Kind: classveil.KindConfig, Path: config.SourceDir,
			Err: classveil.ErrSourceNotFound}
	}
	if err := checkOutputDir(config.SourceDir, config.OutputDir); err != nil {
		return nil, err
	}
	mapFile := config.MapFile
	if mapFile == "" {
		mapFile = filepath.Join(config.OutputDir, classveil.ArtifactName)
	}

	gen, err := classveil.NewGenerator(
		classveil.WithPrefix(config.Prefix),
		classveil.WithLength(config.Length),
		classveil.WithMaxAttempts(config.MaxAttempts),
	)
	if err != nil {
		return nil, err
	}

	// 2. Discover files
	files, stats, err := ScanTree(config.SourceDir, ScanOptions{
		Excludes:         config.Excludes,
		Verbatim:         config.Verbatim,
		RespectGitignore: config.RespectGitignore,
		SkipPaths:        []string{config.OutputDir},
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	logging.Debug("Found %d files in %s (%d skipped)", stats.FilesScanned, config.SourceDir, stats.FilesSkipped)

	// 3. Clear the output tree
	if err := resetDir(config.OutputDir); err != nil {
		return nil, err
	}

	// 4. Rewrite files, stylesheets first so scripts see every class
	b := &builder{
		config:   config,
		classMap: classveil.NewMap(gen),
		minifier: classveil.NewMinifier(),
		result: &BuildResult{
			Files:        make(map[classveil.FileKind]int),
			FilesSkipped: stats.FilesSkipped,
			MapFile:      mapFile,
		},
	}

	var progress *logging.Progress
	if config.Progress {
		progress = logging.NewProgress(os.Stderr, len(files), "Building")
	}
	for _, file := range groupByKind(files) {
		if err := b.processFile(file); err != nil {
			logging.Error("Build stopped at %s, %s is incomplete", file.RelPath, config.OutputDir)
			return nil, err
		}
		progress.Add()
	}
	progress.Complete()

	// 5. Persist the map
	if err := os.MkdirAll(filepath.Dir(mapFile), 0755); err != nil {
		return nil, &classveil.OpError{Op: "write map", Kind: classveil.KindIO, Path: mapFile, Err: err}
	}
	if err := b.classMap.WriteArtifact(mapFile); err != nil {
		return nil, err
	}

	b.result.Pairs = b.classMap.Pairs()
	b.result.ClassesMapped = len(b.result.Pairs)
	logging.Debug("Wrote %d classes to %s", b.result.ClassesMapped, mapFile)
	logging.Info("Built %d files into %s, %d classes mapped", len(files), config.OutputDir, b.result.ClassesMapped)

	return b.result, nil
}

// builder carries the state of one build run. classMap lives exactly as
// long as the run.
type builder struct {
	config   Config
	classMap *classveil.Map
	minifier *classveil.Minifier
	result   *BuildResult
}

// processFile rewrites, minifies and writes one file
func (b *builder) processFile(file SourceFile) error {
	dst := filepath.Join(b.config.OutputDir, filepath.FromSlash(file.RelPath))

	if file.Kind == classveil.Verbatim {
		if err := copyFile(file.Path, dst); err != nil {
			return err
		}
		b.result.Files[file.Kind]++
		return nil
	}

	logging.WithFile(file.RelPath).Debugf("Rewriting %s", file.Kind)

	// #nosec G304 - path comes from walking the configured source tree
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return &classveil.OpError{Op: "read", Kind: classveil.KindIO, Path: file.Path, Err: err}
	}

	output, err := b.rewrite(file.Kind, string(content))
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", file.RelPath, err)
	}

	if b.config.Minify && classveil.CanMinify(file.RelPath) {
		minified, err := b.minifier.Minify(file.Kind, output)
		if err != nil {
			// Keep the rewritten content; minification is cosmetic
			msg := fmt.Sprintf("could not minify %s: %v", file.RelPath, err)
			logging.Warn("%s", msg)
			b.result.Warnings = append(b.result.Warnings, msg)
		} else {
			output = minified
		}
	}

	if err := writeFile(dst, []byte(output)); err != nil {
		return err
	}
	b.result.Files[file.Kind]++
	return nil
}

// rewrite dispatches content to the rewriter for kind
func (b *builder) rewrite(kind classveil.FileKind, content string) (string, error) {
	opts := classveil.RewriteOptions{StrictLiterals: b.config.StrictLiterals}
	switch kind {
	case classveil.Stylesheet:
		return classveil.RewriteCSS(content, b.classMap)
	case classveil.Markup:
		return classveil.RewriteHTML(content, b.classMap, opts)
	case classveil.Script:
		return classveil.RewriteScript(content, b.classMap, opts), nil
	default:
		return content, nil
	}
}

// checkOutputDir refuses output locations whose clearing would destroy the
// source tree
func checkOutputDir(sourceDir, outputDir string) error {
	if outputDir == "" {
		return &classveil.OpError{Op: "build", Kind: classveil.KindConfig,
			Err: errors.New("output directory is required")}
	}
	src, err := filepath.Abs(sourceDir)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}
	if src == out || strings.HasPrefix(src, out+string(filepath.Separator)) {
		return &classveil.OpError{Op: "build", Kind: classveil.KindConfig, Path: outputDir,
			Err: fmt.Errorf("output directory would overwrite source directory %s", sourceDir)}
	}
	return nil
}

// resetDir empties dir, creating it if needed
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return &classveil.OpError{Op: "clear output", Kind: classveil.KindIO, Path: dir, Err: err}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &classveil.OpError{Op: "clear output", Kind: classveil.KindIO, Path: dir, Err: err}
	}
	return nil
}

// writeFile writes data to path, creating parent directories
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &classveil.OpError{Op: "write", Kind: classveil.KindIO, Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &classveil.OpError{Op: "write", Kind: classveil.KindIO, Path: path, Err: err}
	}
	return nil
}

// copyFile copies src to dst unchanged, keeping its permission bits
func copyFile(src, dst string) error {
	// #nosec G304 - path comes from walking the configured source tree
	in, err := os.Open(src)
	if err != nil {
		return &classveil.OpError{Op: "copy", Kind: classveil.KindIO, Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &classveil.OpError{Op: "copy", Kind: classveil.KindIO, Path: src, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return &classveil.OpError{Op: "copy", Kind: classveil.KindIO, Path: dst, Err: err}
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return &classveil.OpError{Op: "copy", Kind: classveil.KindIO, Path: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &classveil.OpError{Op: "copy", Kind: classveil.KindIO, Path: dst, Err: err}
	}
	return out.Close()
}
