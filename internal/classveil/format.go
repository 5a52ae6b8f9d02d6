package classveil

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"github.com/tdewolff/parse/v2/js"
	"github.com/yosssi/gohtml"
)

const indentUnit = "  "

// ErrUnbalanced is returned by the formatters when braces do not match.
var ErrUnbalanced = errors.New("unbalanced braces")

// Format re-formats content according to kind. On error the caller should
// keep the unformatted content; formatting is best effort.
func Format(kind FileKind, content string) (string, error) {
	switch kind {
	case Stylesheet:
		return FormatCSS(content)
	case Markup:
		return gohtml.Format(content) + "\n", nil
	case Script:
		return FormatJS(content)
	default:
		return content, nil
	}
}

// lineWriter accumulates indented output lines
type lineWriter struct {
	b     strings.Builder
	depth int
}

func (w *lineWriter) line(s string) {
	w.b.WriteString(strings.Repeat(indentUnit, w.depth))
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

// FormatCSS prints one declaration per line with nested blocks indented.
func FormatCSS(src string) (string, error) {
	lexer := css.NewLexer(parse.NewInputString(src))
	w := &lineWriter{}

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
			w.line(joinCSS(segment, false) + " {")
			w.depth++
			segment = segment[:0]

		case css.SemicolonToken:
			if s := joinCSS(segment, w.depth > 0); s != "" {
				w.line(s + ";")
			}
			segment = segment[:0]

		case css.RightBraceToken:
			if s := joinCSS(segment, true); s != "" {
				w.line(s + ";")
			}
			segment = segment[:0]
			w.depth--
			if w.depth < 0 {
				return "", fmt.Errorf("format css: %w", ErrUnbalanced)
			}
			w.line("}")
			if w.depth == 0 {
				w.b.WriteByte('\n')
			}

		case css.CommentToken:
			if joinCSS(segment, false) == "" {
				w.line(string(text))
				segment = segment[:0]
				continue
			}
			segment = append(segment, cssToken{tt: tt, data: string(text)})

		default:
			segment = append(segment, cssToken{tt: tt, data: string(text)})
		}
	}

	if s := joinCSS(segment, false); s != "" {
		w.line(s)
	}
	if w.depth != 0 {
		return "", fmt.Errorf("format css: %w", ErrUnbalanced)
	}
	return strings.TrimRight(w.b.String(), "\n") + "\n", nil
}

// joinCSS collapses whitespace in a segment. In declarations the first
// colon is followed by exactly one space.
func joinCSS(segment []cssToken, declaration bool) string {
	var b strings.Builder
	pendingSpace := false
	seenColon := false
	for _, tok := range segment {
		if tok.tt == css.WhitespaceToken {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteString(tok.data)

		switch {
		case tok.tt == css.ColonToken && declaration && !seenColon:
			seenColon = true
			pendingSpace = true
		case tok.tt == css.CommaToken:
			pendingSpace = true
		}
	}
	return b.String()
}

// FormatJS re-indents JavaScript: a line break after '{', ';' and '}',
// original line breaks kept, whitespace collapsed. Tokens are never
// reordered or dropped, so semantics are unchanged.
func FormatJS(src string) (string, error) {
	lexer := js.NewLexer(parse.NewInputString(src))
	f := &jsFormatter{}

	for {
		tt, text := lexer.Next()
		if tt == js.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("lex js: %w", err)
			}
			break
		}

		if (tt == js.DivToken || tt == js.DivEqToken) && !f.afterOperand() {
			tt, text = lexer.RegExp()
			if tt == js.ErrorToken {
				return "", fmt.Errorf("lex js: %w", lexer.Err())
			}
		}

		if err := f.token(tt, string(text)); err != nil {
			return "", err
		}
	}

	if f.depth != 0 || f.parens != 0 {
		return "", fmt.Errorf("format js: %w", ErrUnbalanced)
	}
	return strings.TrimRight(f.b.String(), " \n") + "\n", nil
}

// jsFormatter is the state of FormatJS
type jsFormatter struct {
	b         strings.Builder
	depth     int          // brace depth
	parens    int          // parenthesis depth; ';' inside for(;;) stays inline
	templates int          // open template substitutions; no breaks inside
	last      js.TokenType // last significant token
	lineStart bool         // nothing written on the current line yet
	space     bool         // whitespace seen since the last token
	breakNext bool         // a '}' wants a line break before the next token
}

// afterOperand reports whether a '/' here is division rather than a regexp
func (f *jsFormatter) afterOperand() bool {
	tt := f.last
	return js.IsIdentifier(tt) || js.IsNumeric(tt) ||
		tt == js.StringToken || tt == js.TemplateToken || tt == js.TemplateEndToken ||
		tt == js.RegExpToken || tt == js.CloseParenToken || tt == js.CloseBracketToken ||
		tt == js.ThisToken || tt == js.SuperToken || tt == js.NullToken ||
		tt == js.TrueToken || tt == js.FalseToken || tt == js.PrivateIdentifierToken ||
		tt == js.IncrToken || tt == js.DecrToken
}

func (f *jsFormatter) newline() {
	if f.templates > 0 {
		f.space = true
		return
	}
	if !f.lineStart {
		f.b.WriteByte('\n')
	}
	f.lineStart = true
	f.space = false
}

func (f *jsFormatter) write(s string) {
	if f.lineStart {
		f.b.WriteString(strings.Repeat(indentUnit, f.depth))
		f.lineStart = false
	} else if f.space {
		f.b.WriteByte(' ')
	}
	f.space = false
	f.b.WriteString(s)
}

func (f *jsFormatter) token(tt js.TokenType, text string) error {
	switch tt {
	case js.WhitespaceToken:
		f.space = true
		return nil
	case js.LineTerminatorToken, js.CommentLineTerminatorToken:
		if tt == js.CommentLineTerminatorToken {
			f.write(strings.TrimSpace(text))
		}
		f.breakNext = false
		f.newline()
		return nil
	}

	if f.breakNext {
		f.breakNext = false
		switch tt {
		case js.ElseToken, js.CatchToken, js.FinallyToken, js.WhileToken:
			f.space = true
		case js.CloseParenToken, js.CloseBracketToken, js.CommaToken, js.SemicolonToken, js.DotToken, js.OptChainToken:
		default:
			f.newline()
		}
	}

	switch tt {
	case js.OpenBraceToken:
		f.write(text)
		f.depth++
		f.newline()
	case js.CloseBraceToken:
		f.depth--
		if f.depth < 0 {
			return fmt.Errorf("format js: %w", ErrUnbalanced)
		}
		f.newline()
		f.write(text)
		f.breakNext = true
	case js.SemicolonToken:
		f.space = false
		f.write(text)
		if f.parens == 0 {
			f.newline()
		} else {
			f.space = true
		}
	case js.OpenParenToken:
		f.parens++
		f.write(text)
	case js.CloseParenToken:
		f.parens--
		f.space = false
		f.write(text)
	case js.CommaToken:
		f.space = false
		f.write(text)
		f.space = true
	case js.TemplateStartToken:
		f.write(text)
		f.templates++
	case js.TemplateEndToken:
		f.templates--
		f.write(text)
	case js.TemplateMiddleToken:
		f.write(text)
	case js.CommentToken:
		f.write(text)
	default:
		if tt == js.ArrowToken || js.IsOperator(tt) && tt != js.IncrToken && tt != js.DecrToken && tt != js.NotToken && tt != js.BitNotToken {
			f.space = true
			f.write(text)
			f.space = true
		} else {
			f.write(text)
		}
	}

	if tt != js.CommentToken {
		f.last = tt
	}
	return nil
}
