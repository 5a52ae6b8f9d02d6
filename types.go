package classveil

import (
	"github.com/yacobolo/classveil/internal/classveil"
)

// Config holds build configuration
type Config struct {
	SourceDir        string   // "src"
	OutputDir        string   // "dist" (cleared before writing)
	MapFile          string   // Defaults to <OutputDir>/class-map.json
	Prefix           string   // Non-digit prefix of replacements (default: "x")
	Length           int      // Random characters after the prefix (default: 6)
	MaxAttempts      int      // Retry cap for unique generation (default: 1000)
	Minify           bool     // Minify CSS/HTML/JS output
	StrictLiterals   bool     // Only rewrite literals made entirely of known classes
	Excludes         []string // Glob patterns for files left out of the output
	Verbatim         []string // Glob patterns for files copied unchanged
	RespectGitignore bool     // Skip files ignored by <SourceDir>/.gitignore
	Progress         bool     // Show a progress bar on stderr
}

// BuildResult contains build stats
type BuildResult struct {
	Files         map[classveil.FileKind]int // Files written, per kind
	FilesSkipped  int                        // Files dropped by excludes or .gitignore
	ClassesMapped int                        // Entries in the class map
	MapFile       string                     // Where the class map was written
	Pairs         []classveil.Pair           // The class map, in insertion order
	Warnings      []string
}

// RestoreConfig holds restore configuration
type RestoreConfig struct {
	InputDir  string   // Previously built tree ("dist")
	OutputDir string   // "restored" (cleared before writing)
	MapFile   string   // Defaults to <InputDir>/class-map.json
	Format    bool     // Re-format CSS/HTML/JS after substitution
	Excludes  []string // Glob patterns for files left out of the output
	Progress  bool     // Show a progress bar on stderr
}

// RestoreResult contains restore stats
type RestoreResult struct {
	FilesRestored  int // Text files substituted and written
	FilesFormatted int // Of those, successfully re-formatted
	FilesCopied    int // Binary files copied unchanged
	ClassesMapped  int // Entries in the class map
	MapFile        string
	Warnings       []string
}

// withDefaults fills zero values
func (c Config) withDefaults() Config {
	if c.Prefix == "" {
		c.Prefix = classveil.DefaultPrefix
	}
	if c.Length == 0 {
		c.Length = classveil.DefaultLength
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = classveil.DefaultMaxAttempts
	}
	return c
}
