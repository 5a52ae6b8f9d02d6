package classveil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinifier(t *testing.T) {
	mn := NewMinifier()

	tests := []struct {
		name string
		kind FileKind
		in   string
		want string
	}{
		{
			name: "stylesheet",
			kind: Stylesheet,
			in:   ".x000001 {\n  color: red;\n}\n",
			want: ".x000001{color:red}",
		},
		{
			name: "verbatim untouched",
			kind: Verbatim,
			in:   "  a  b  ",
			want: "  a  b  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mn.Minify(tt.kind, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinifier_MarkupKeepsClassQuotes(t *testing.T) {
	got, err := NewMinifier().Minify(Markup, "<div  class=\"x000001 x000002\" >\n  Hi\n</div>")
	require.NoError(t, err)
	assert.Contains(t, got, `class="x000001 x000002"`)
}

func TestMinifier_ScriptKeepsLiterals(t *testing.T) {
	got, err := NewMinifier().Minify(Script, "el.classList.add( \"x000001\" );\n")
	require.NoError(t, err)
	assert.Contains(t, got, `"x000001"`)
	assert.Less(t, len(got), len("el.classList.add( \"x000001\" );\n"))
}
