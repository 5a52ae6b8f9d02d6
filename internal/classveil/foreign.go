package classveil

import (
	"errors"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// sourceCursor maps lexer tokens back onto the text they were lexed from.
// The html and xml lexers lowercase names in place, rewrite whitespace in
// attribute values and drop the whitespace before a tag close, so output
// is built from the original source instead of the token bytes.
type sourceCursor struct {
	src string
	pos int
}

// take returns the source text of the next token of n bytes. With
// closesTag, whitespace the lexer skipped before the token is included.
func (c *sourceCursor) take(n int, closesTag bool) string {
	start := c.pos
	if closesTag {
		for c.pos < len(c.src) && isMarkupSpace(c.src[c.pos]) {
			c.pos++
		}
	}
	c.pos += n
	if c.pos > len(c.src) {
		c.pos = len(c.src)
	}
	return c.src[start:c.pos]
}

// rest returns the source after the last token
func (c *sourceCursor) rest() string {
	rest := c.src[c.pos:]
	c.pos = len(c.src)
	return rest
}

func isMarkupSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// foreignLexer walks an inline <svg> or <math> element with the XML lexer
// and hands back each token as its original source text.
type foreignLexer struct {
	lexer  *xml.Lexer
	cursor sourceCursor
}

func newForeignLexer(src string) *foreignLexer {
	return &foreignLexer{
		lexer:  xml.NewLexer(parse.NewInputString(src)),
		cursor: sourceCursor{src: src},
	}
}

// next returns the next token type and its source text. At the end of
// input it returns xml.ErrorToken with whatever source is left.
func (f *foreignLexer) next() (xml.TokenType, string) {
	tt, data := f.lexer.Next()
	switch tt {
	case xml.ErrorToken:
		return tt, f.cursor.rest()
	case xml.StartTagCloseToken, xml.StartTagCloseVoidToken, xml.StartTagClosePIToken:
		return tt, f.cursor.take(len(data), true)
	default:
		return tt, f.cursor.take(len(data), false)
	}
}

// err is the lexer error, nil at a clean end of input
func (f *foreignLexer) err() error {
	if err := f.lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// name is the tag or attribute name of the current token
func (f *foreignLexer) name() string {
	return string(f.lexer.Text())
}

// text is the inner text of the current CDATA token
func (f *foreignLexer) text() string {
	return string(f.lexer.Text())
}

// attrValLen is the length of the current attribute's value including
// quotes, or -1 for an attribute without a value
func (f *foreignLexer) attrValLen() int {
	if val := f.lexer.AttrVal(); val != nil {
		return len(val)
	}
	return -1
}
