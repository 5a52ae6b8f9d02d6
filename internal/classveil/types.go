package classveil

import (
	"path/filepath"
	"strings"
)

// FileKind is the transform family a file belongs to
type FileKind string

// File kinds, in build processing order
const (
	Stylesheet FileKind = "stylesheet"
	Markup     FileKind = "markup"
	Script     FileKind = "script"
	Verbatim   FileKind = "verbatim"
)

// KindOrder lists the kinds in the order a build processes them. CSS and
// HTML create map entries; scripts only reuse them, so they come last.
var KindOrder = []FileKind{Stylesheet, Markup, Script, Verbatim}

var kindByExt = map[string]FileKind{
	".css":  Stylesheet,
	".html": Markup,
	".htm":  Markup,
	".js":   Script,
	".mjs":  Script,
	".cjs":  Script,
	".jsx":  Script,
	".ts":   Script,
	".tsx":  Script,
}

// minifiableExt lists script extensions the JS minifier understands
var minifiableExt = map[string]bool{
	".css":  true,
	".html": true,
	".htm":  true,
	".js":   true,
	".mjs":  true,
	".cjs":  true,
}

// ClassifyFile returns the kind of path based on its extension.
func ClassifyFile(path string) FileKind {
	if kind, ok := kindByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return kind
	}
	return Verbatim
}

// CanMinify reports whether the minifier supports path.
func CanMinify(path string) bool {
	return minifiableExt[strings.ToLower(filepath.Ext(path))]
}
