package classveil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/yacobolo/classveil/internal/classveil"
)

// SourceFile is a file discovered while walking a tree
type SourceFile struct {
	Path    string             // Path on disk
	RelPath string             // Slash-separated path relative to the tree root
	Kind    classveil.FileKind // Transform family
}

// ScanStats tracks file discovery statistics
type ScanStats struct {
	FilesDiscovered int // Regular files found by the walk
	FilesScanned    int // Files kept for processing
	FilesSkipped    int // Files dropped by excludes or .gitignore
}

// ScanOptions controls which files a walk keeps
type ScanOptions struct {
	Excludes         []string // Glob patterns (relative to root) for files to drop
	Verbatim         []string // Glob patterns for files copied without rewriting
	RespectGitignore bool     // Drop files matched by <root>/.gitignore
	SkipPaths        []string // Absolute paths (files or directories) never visited
}

// ScanTree walks root depth-first in lexical order and classifies every
// regular file. Symlinks and other non-regular files are ignored.
func ScanTree(root string, opts ScanOptions) ([]SourceFile, ScanStats, error) {
	stats := ScanStats{}

	for _, pattern := range append(append([]string{}, opts.Excludes...), opts.Verbatim...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, stats, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	skip := make(map[string]bool, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		if abs, err := filepath.Abs(p); err == nil {
			skip[abs] = true
		}
	}

	var gi *ignore.GitIgnore
	if opts.RespectGitignore {
		gi = loadGitIgnore(root)
	}

	var files []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if abs, err := filepath.Abs(path); err == nil && skip[abs] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		stats.FilesDiscovered++
		if matchesAny(opts.Excludes, rel) || (gi != nil && gi.MatchesPath(rel)) {
			stats.FilesSkipped++
			return nil
		}

		kind := classveil.ClassifyFile(rel)
		if matchesAny(opts.Verbatim, rel) {
			kind = classveil.Verbatim
		}
		files = append(files, SourceFile{Path: path, RelPath: rel, Kind: kind})
		stats.FilesScanned++
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, stats, nil
}

// loadGitIgnore compiles <root>/.gitignore. A missing file is fine.
func loadGitIgnore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// matchesAny reports whether rel matches one of the glob patterns
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// groupByKind orders files by classveil.KindOrder, keeping walk order inside
// each group
func groupByKind(files []SourceFile) []SourceFile {
	ordered := make([]SourceFile, 0, len(files))
	for _, kind := range classveil.KindOrder {
		for _, f := range files {
			if f.Kind == kind {
				ordered = append(ordered, f)
			}
		}
	}
	return ordered
}

// isDir reports whether path exists and is a directory
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
