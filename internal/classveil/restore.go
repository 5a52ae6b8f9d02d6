package classveil

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
	"github.com/tdewolff/parse/v2/xml"
)

// identRun matches a maximal run of identifier characters. A replacement
// token is only restored when it is a whole run, so "xab12c" never matches
// inside "xab12cd" or "my-xab12c".
var identRun = regexp.MustCompile(`[A-Za-z0-9_-]+`)

// Restorer turns replacement tokens back into original class names.
type Restorer struct {
	inverse map[string]string
	escaped map[string]string // originals escaped for use in stylesheets
}

// NewRestorer inverts pairs. It fails with ErrDuplicateValue when the map
// cannot be inverted without loss.
func NewRestorer(pairs []Pair) (*Restorer, error) {
	inverse, err := Invert(pairs)
	if err != nil {
		return nil, err
	}
	escaped := make(map[string]string, len(inverse))
	for replacement, original := range inverse {
		escaped[replacement] = escapeIdent(original)
	}
	return &Restorer{inverse: inverse, escaped: escaped}, nil
}

// Substitute replaces every whole-word replacement token in content with
// its original. It is a blind text pass that works for any file type.
func (r *Restorer) Substitute(content string) string {
	return substitute(content, r.inverse)
}

// SubstituteCSS is Substitute with originals escaped as CSS identifiers, so
// a class such as "sm:p-4" comes back as ".sm\:p-4".
func (r *Restorer) SubstituteCSS(content string) string {
	return substitute(content, r.escaped)
}

// SubstituteMarkup is Substitute for HTML, except that <style> bodies
// (inline SVG ones included) get CSS-escaped originals like SubstituteCSS.
func (r *Restorer) SubstituteMarkup(content string) string {
	lexer := html.NewLexer(parse.NewInputString(content))
	cursor := sourceCursor{src: content}

	var out strings.Builder
	out.Grow(len(content))

	var rawTag html.Hash
	for {
		tt, data := lexer.Next()
		if tt == html.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return r.Substitute(content)
			}
			out.WriteString(r.Substitute(cursor.rest()))
			return out.String()
		}
		raw := cursor.take(len(data), closesTag(tt))

		switch tt {
		case html.StartTagToken:
			rawTag = html.ToHash(lexer.Text())
			out.WriteString(r.Substitute(raw))
		case html.TextToken:
			if rawTag == html.Style {
				out.WriteString(r.SubstituteCSS(raw))
			} else {
				out.WriteString(r.Substitute(raw))
			}
		case html.SVGToken, html.MathToken:
			out.WriteString(r.substituteForeign(raw))
		case html.EndTagToken:
			rawTag = 0
			out.WriteString(r.Substitute(raw))
		default:
			out.WriteString(r.Substitute(raw))
		}
	}
}

// substituteForeign restores an inline SVG or MathML element
func (r *Restorer) substituteForeign(content string) string {
	lexer := newForeignLexer(content)

	var out strings.Builder
	out.Grow(len(content))

	inStyle := false
	for {
		tt, raw := lexer.next()
		switch tt {
		case xml.ErrorToken:
			if lexer.err() != nil {
				return r.Substitute(content)
			}
			out.WriteString(r.Substitute(raw))
			return out.String()
		case xml.StartTagToken:
			inStyle = lexer.name() == "style"
			out.WriteString(r.Substitute(raw))
		case xml.TextToken, xml.CDATAToken:
			if inStyle {
				out.WriteString(r.SubstituteCSS(raw))
			} else {
				out.WriteString(r.Substitute(raw))
			}
		case xml.EndTagToken:
			inStyle = false
			out.WriteString(r.Substitute(raw))
		default:
			out.WriteString(r.Substitute(raw))
		}
	}
}

func substitute(content string, table map[string]string) string {
	if len(table) == 0 {
		return content
	}
	return identRun.ReplaceAllStringFunc(content, func(word string) string {
		if original, ok := table[word]; ok {
			return original
		}
		return word
	})
}

// Restore substitutes and then formats content. The returned string is
// always usable: when formatting fails it is the substituted, unformatted
// content and the error describes the formatting failure.
func (r *Restorer) Restore(kind FileKind, content string) (string, error) {
	var substituted string
	switch kind {
	case Stylesheet:
		substituted = r.SubstituteCSS(content)
	case Markup:
		substituted = r.SubstituteMarkup(content)
	default:
		substituted = r.Substitute(content)
	}
	formatted, err := Format(kind, substituted)
	if err != nil {
		return substituted, err
	}
	return formatted, nil
}

// escapeIdent escapes characters that may not appear unescaped in a CSS
// class selector. A digit at the start, or right after a leading hyphen,
// becomes a hex escape; a lone hyphen is escaped too.
func escapeIdent(s string) string {
	if s == "-" {
		return `\-`
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case '0' <= r && r <= '9' && (i == 0 || i == 1 && s[0] == '-'):
			fmt.Fprintf(&b, "\\%x ", r)
		case r >= 0x80, r == '_', r == '-', '0' <= r && r <= '9',
			'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
