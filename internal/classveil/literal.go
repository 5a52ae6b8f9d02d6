package classveil

import (
	"regexp"
	"strings"
)

// RewriteOptions tunes the heuristic parts of rewriting.
type RewriteOptions struct {
	// StrictLiterals only rewrites a literal when every token in it is a
	// known class, so prose such as "click the button" is left alone even
	// when "button" is a class name.
	StrictLiterals bool
}

var (
	// Single- and double-quoted strings stop at a newline; template
	// literals may span lines.
	literalPattern = regexp.MustCompile(`(?s)"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'|` + "`(?:[^`\\\\]|\\\\.)*`")

	// Whitespace-delimited tokens inside a literal body
	tokenPattern = regexp.MustCompile(`\S+`)
)

// RewriteScript scans src for string and template literals and rewrites
// the ones that mention known classes. It is a text heuristic, not a JS
// parser: it never allocates map entries, only reuses the ones the CSS and
// HTML passes created, and a literal with no known token is left
// byte-identical.
//
// Known limitation: a prose string that happens to contain a word equal to
// a class name is rewritten too (unless StrictLiterals is set).
func RewriteScript(src string, m *Map, opts RewriteOptions) string {
	if m.Len() == 0 {
		return src
	}
	return literalPattern.ReplaceAllStringFunc(src, func(lit string) string {
		return rewriteLiteral(lit, m, opts)
	})
}

// rewriteLiteral rewrites one quoted literal, keeping its delimiter and the
// whitespace between tokens
func rewriteLiteral(lit string, m *Map, opts RewriteOptions) string {
	if len(lit) < 2 {
		return lit
	}
	if lit[0] == '`' {
		return rewriteTemplate(lit, m, opts)
	}
	quote := lit[:1]
	body := lit[1 : len(lit)-1]

	rewritten, total, matched := rewriteTokens(body, m)
	if !accept(total, matched, opts) {
		return lit
	}
	return quote + rewritten + quote
}

// templatePart is a piece of a template literal body: raw text or the
// source of one ${...} substitution
type templatePart struct {
	text string
	expr bool
}

// rewriteTemplate rewrites the text of a template literal like any other
// literal, and the expression of each ${...} substitution as script, so
// `card ${on ? "active" : ""}` gets both classes.
func rewriteTemplate(lit string, m *Map, opts RewriteOptions) string {
	parts := splitTemplate(lit[1 : len(lit)-1])

	var text strings.Builder
	for _, p := range parts {
		if !p.expr {
			text.WriteString(p.text)
		}
	}
	_, total, matched := rewriteTokens(text.String(), m)
	rewriteText := accept(total, matched, opts)

	var out strings.Builder
	out.Grow(len(lit))
	out.WriteByte('`')
	for _, p := range parts {
		switch {
		case p.expr:
			out.WriteString("${")
			out.WriteString(RewriteScript(p.text, m, opts))
			out.WriteString("}")
		case rewriteText:
			rewritten, _, _ := rewriteTokens(p.text, m)
			out.WriteString(rewritten)
		default:
			out.WriteString(p.text)
		}
	}
	out.WriteByte('`')
	return out.String()
}

// splitTemplate cuts a template body at its ${...} substitutions. An
// unterminated substitution is kept as text.
func splitTemplate(body string) []templatePart {
	var parts []templatePart
	textStart := 0
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\\':
			i++
		case body[i] == '$' && i+1 < len(body) && body[i+1] == '{':
			end := exprEnd(body, i+2)
			if end < 0 {
				return append(parts, templatePart{text: body[textStart:]})
			}
			if i > textStart {
				parts = append(parts, templatePart{text: body[textStart:i]})
			}
			parts = append(parts, templatePart{text: body[i+2 : end], expr: true})
			i = end
			textStart = end + 1
		}
	}
	if textStart < len(body) {
		parts = append(parts, templatePart{text: body[textStart:]})
	}
	return parts
}

// exprEnd returns the index of the '}' closing a substitution whose
// expression starts at start, skipping nested braces and quoted strings.
// It returns -1 when there is none.
func exprEnd(body string, start int) int {
	depth := 1
	for i := start; i < len(body); i++ {
		switch c := body[i]; c {
		case '\\':
			i++
		case '"', '\'':
			for i++; i < len(body) && body[i] != c; i++ {
				if body[i] == '\\' {
					i++
				}
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// rewriteTokens replaces every known whitespace-delimited token of body,
// reporting how many tokens there were and how many matched
func rewriteTokens(body string, m *Map) (string, int, int) {
	var total, matched int
	rewritten := tokenPattern.ReplaceAllStringFunc(body, func(tok string) string {
		total++
		if replacement, ok := m.Lookup(tok); ok {
			matched++
			return replacement
		}
		return tok
	})
	return rewritten, total, matched
}

// accept reports whether a literal with these token counts is rewritten
func accept(total, matched int, opts RewriteOptions) bool {
	if matched == 0 {
		return false
	}
	return !opts.StrictLiterals || matched == total
}
