package classveil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
	"github.com/tdewolff/parse/v2/xml"
)

// scriptTypes are <script type> values whose body is JavaScript
var scriptTypes = map[string]bool{
	"":                       true,
	"module":                 true,
	"text/javascript":        true,
	"application/javascript": true,
	"text/ecmascript":        true,
	"application/ecmascript": true,
}

// RewriteHTML rewrites every class attribute in src: the value is split on
// whitespace, each token resolved through m and the tokens rejoined with a
// single space. Inline <style> bodies go through RewriteCSS and inline
// JavaScript bodies through RewriteScript.
//
// Only the attribute named class is touched. className, :class and other
// framework spellings are left to the literal pass.
func RewriteHTML(src string, m *Map, opts RewriteOptions) (string, error) {
	lexer := html.NewLexer(parse.NewInputString(src))
	cursor := sourceCursor{src: src}

	var out strings.Builder
	out.Grow(len(src))

	var (
		rawTag   html.Hash // tag whose raw text comes next
		isScript bool      // <script> with a JavaScript type
	)

	for {
		tt, data := lexer.Next()
		if tt == html.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("lex html: %w", err)
			}
			out.WriteString(cursor.rest())
			return out.String(), nil
		}
		raw := cursor.take(len(data), closesTag(tt))

		switch tt {
		case html.StartTagToken:
			rawTag = html.ToHash(lexer.Text())
			isScript = rawTag == html.Script
			out.WriteString(raw)

		case html.AttributeToken:
			key := string(lexer.AttrKey())
			val := lexer.AttrVal()

			if rawTag == html.Script && key == "type" {
				isScript = scriptTypes[strings.ToLower(strings.TrimSpace(unquote(string(val))))]
			}

			if key != "class" || val == nil {
				out.WriteString(raw)
				continue
			}
			rewritten, err := rewriteClassAttribute([]byte(raw), val, m)
			if err != nil {
				return "", err
			}
			out.WriteString(rewritten)

		case html.TextToken:
			switch {
			case rawTag == html.Style:
				rewritten, err := RewriteCSS(raw, m)
				if err != nil {
					return "", fmt.Errorf("inline style: %w", err)
				}
				out.WriteString(rewritten)
			case rawTag == html.Script && isScript:
				out.WriteString(RewriteScript(raw, m, opts))
			default:
				out.WriteString(raw)
			}

		case html.SVGToken, html.MathToken:
			// The lexer returns inline <svg> and <math> as one raw token
			rewritten, err := rewriteForeignContent(raw, m)
			if err != nil {
				return "", err
			}
			out.WriteString(rewritten)

		case html.EndTagToken:
			rawTag = 0
			isScript = false
			out.WriteString(raw)

		default:
			out.WriteString(raw)
		}
	}
}

// closesTag reports whether the html lexer skips whitespace before tt
func closesTag(tt html.TokenType) bool {
	return tt == html.StartTagCloseToken || tt == html.StartTagVoidToken
}

// rewriteForeignContent rewrites class attributes and <style> bodies of an
// inline SVG or MathML element. Foreign content is XML, so attribute names
// are case-sensitive here.
func rewriteForeignContent(src string, m *Map) (string, error) {
	lexer := newForeignLexer(src)

	var out strings.Builder
	out.Grow(len(src))

	inStyle := false
	for {
		tt, raw := lexer.next()
		switch tt {
		case xml.ErrorToken:
			if err := lexer.err(); err != nil {
				return "", fmt.Errorf("lex inline svg: %w", err)
			}
			out.WriteString(raw)
			return out.String(), nil

		case xml.StartTagToken:
			inStyle = lexer.name() == "style"
			out.WriteString(raw)

		case xml.AttributeToken:
			n := lexer.attrValLen()
			if lexer.name() != "class" || n < 0 || n > len(raw) {
				out.WriteString(raw)
				continue
			}
			rewritten, err := rewriteClassAttribute([]byte(raw), []byte(raw[len(raw)-n:]), m)
			if err != nil {
				return "", err
			}
			out.WriteString(rewritten)

		case xml.TextToken:
			if !inStyle {
				out.WriteString(raw)
				continue
			}
			rewritten, err := RewriteCSS(raw, m)
			if err != nil {
				return "", fmt.Errorf("inline svg style: %w", err)
			}
			out.WriteString(rewritten)

		case xml.CDATAToken:
			if !inStyle {
				out.WriteString(raw)
				continue
			}
			rewritten, err := RewriteCSS(lexer.text(), m)
			if err != nil {
				return "", fmt.Errorf("inline svg style: %w", err)
			}
			out.WriteString("<![CDATA[" + rewritten + "]]>")

		case xml.EndTagToken:
			inStyle = false
			out.WriteString(raw)

		default:
			out.WriteString(raw)
		}
	}
}

// rewriteClassAttribute rewrites the raw attribute text data whose value
// (including quotes) is val
func rewriteClassAttribute(data, val []byte, m *Map) (string, error) {
	if !bytes.HasSuffix(data, val) {
		return string(data), nil
	}
	prefix := string(data[:len(data)-len(val)])
	raw := string(val)

	quote := ""
	inner := raw
	if raw != "" && (raw[0] == '"' || raw[0] == '\'') {
		if len(raw) < 2 || raw[len(raw)-1] != raw[0] {
			// Unterminated value, leave it for the browser to sort out
			return string(data), nil
		}
		quote = raw[:1]
		inner = raw[1 : len(raw)-1]
	}

	tokens := strings.Fields(inner)
	for i, tok := range tokens {
		replacement, err := m.Resolve(tok)
		if err != nil {
			return "", err
		}
		tokens[i] = replacement
	}
	value := strings.Join(tokens, " ")

	if quote == "" && len(tokens) != 1 {
		quote = `"`
	}
	return prefix + quote + value + quote, nil
}

// unquote strips matching surrounding quotes from an attribute value
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
