package classveil

import (
	"fmt"
	"regexp"

	"github.com/tdewolff/minify/v2"
	cssmin "github.com/tdewolff/minify/v2/css"
	htmlmin "github.com/tdewolff/minify/v2/html"
	jsmin "github.com/tdewolff/minify/v2/js"
)

var mediaTypes = map[FileKind]string{
	Stylesheet: "text/css",
	Markup:     "text/html",
	Script:     "application/javascript",
}

// Minifier compacts rewritten output before it is written.
type Minifier struct {
	m *minify.M
}

// NewMinifier registers the CSS, HTML and JS minifiers. HTML keeps document
// tags, end tags and attribute quotes so class lists stay readable to the
// restore pass.
func NewMinifier() *Minifier {
	m := minify.New()
	m.AddFunc("text/css", cssmin.Minify)
	m.Add("text/html", &htmlmin.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), jsmin.Minify)
	return &Minifier{m: m}
}

// Minify minifies content of the given kind. Verbatim content is returned
// as-is.
func (mn *Minifier) Minify(kind FileKind, content string) (string, error) {
	mediaType, ok := mediaTypes[kind]
	if !ok {
		return content, nil
	}
	out, err := mn.m.String(mediaType, content)
	if err != nil {
		return "", fmt.Errorf("minify %s: %w", kind, err)
	}
	return out, nil
}
