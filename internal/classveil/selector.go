package classveil

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// cssToken is a buffered lexer token
type cssToken struct {
	tt   css.TokenType
	data string
}

// RewriteCSS replaces every class selector in src with its mapped
// replacement, allocating new entries on first sight.
//
// The lexer splits the stylesheet into segments ending at '{', ';' or '}'.
// A segment ending at '{' that does not start with an at-keyword is a
// selector prelude; everything else (declarations, at-rule preludes,
// comments) is copied through unchanged.
func RewriteCSS(src string, m *Map) (string, error) {
	lexer := css.NewLexer(parse.NewInputString(src))

	var out strings.Builder
	out.Grow(len(src))

	var segment []cssToken
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("lex css: %w", err)
			}
			break
		}

		switch tt {
		case css.LeftBraceToken:
			if isSelectorPrelude(segment) {
				if err := writeSelector(&out, segment, m); err != nil {
					return "", err
				}
			} else {
				writeTokens(&out, segment)
			}
			segment = segment[:0]
			out.Write(text)

		case css.SemicolonToken, css.RightBraceToken:
			writeTokens(&out, segment)
			segment = segment[:0]
			out.Write(text)

		default:
			segment = append(segment, cssToken{tt: tt, data: string(text)})
		}
	}
	writeTokens(&out, segment)

	return out.String(), nil
}

// isSelectorPrelude reports whether the tokens before a '{' form a selector list
func isSelectorPrelude(segment []cssToken) bool {
	for _, tok := range segment {
		switch tok.tt {
		case css.WhitespaceToken, css.CommentToken, css.CDOToken, css.CDCToken:
			continue
		case css.AtKeywordToken:
			return false
		default:
			return true
		}
	}
	return false
}

// writeSelector writes a selector prelude, renaming ".ident" pairs.
// Pseudo-classes, combinators and attribute selectors pass through as-is;
// class selectors inside :not()/:is()/:where() are renamed like any other.
func writeSelector(out *strings.Builder, segment []cssToken, m *Map) error {
	for i := 0; i < len(segment); i++ {
		tok := segment[i]
		if tok.tt == css.DelimToken && tok.data == "." &&
			i+1 < len(segment) && segment[i+1].tt == css.IdentToken {
			replacement, err := m.Resolve(unescapeIdent(segment[i+1].data))
			if err != nil {
				return err
			}
			out.WriteByte('.')
			out.WriteString(replacement)
			i++
			continue
		}
		out.WriteString(tok.data)
	}
	return nil
}

func writeTokens(out *strings.Builder, tokens []cssToken) {
	for _, tok := range tokens {
		out.WriteString(tok.data)
	}
}

// unescapeIdent decodes CSS escapes so ".sm\:p-4" and class="sm:p-4" share
// one map entry.
func unescapeIdent(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}

		// Hex escape: 1-6 hex digits plus one optional whitespace
		j := i + 1
		for j < len(s) && j < i+7 && isHexDigit(s[j]) {
			j++
		}
		if j > i+1 {
			code, _ := strconv.ParseUint(s[i+1:j], 16, 32)
			r := rune(code)
			if r == 0 || !utf8.ValidRune(r) {
				r = utf8.RuneError
			}
			b.WriteRune(r)
			if j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n') {
				j++
			}
			i = j - 1
			continue
		}

		b.WriteByte(s[i+1])
		i++
	}
	return b.String()
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
