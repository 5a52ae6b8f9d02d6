package classveil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRestorer(t *testing.T) *Restorer {
	t.Helper()
	r, err := NewRestorer([]Pair{
		{"btn", "xaaaaaa"},
		{"card", "xbbbbbb"},
		{"sm:p-4", "xcccccc"},
		{"1col", "xdddddd"},
	})
	require.NoError(t, err)
	return r
}

func TestRestorer_Substitute(t *testing.T) {
	r := newTestRestorer(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "class attribute",
			in:   `<div class="xbbbbbb xaaaaaa">`,
			want: `<div class="card btn">`,
		},
		{
			name: "whole words only",
			in:   `xaaaaaab my-xaaaaaa xaaaaaa_x xaaaaaa`,
			want: `xaaaaaab my-xaaaaaa xaaaaaa_x btn`,
		},
		{
			name: "script literal",
			in:   `el.classList.add("xcccccc")`,
			want: `el.classList.add("sm:p-4")`,
		},
		{
			name: "unknown tokens untouched",
			in:   `xzzzzzz`,
			want: `xzzzzzz`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Substitute(tt.in))
		})
	}
}

func TestRestorer_SubstituteCSS(t *testing.T) {
	r := newTestRestorer(t)

	assert.Equal(t, `.btn .card{}`, r.SubstituteCSS(`.xaaaaaa .xbbbbbb{}`))
	assert.Equal(t, `.sm\:p-4{}`, r.SubstituteCSS(`.xcccccc{}`))
	assert.Equal(t, `.\31 col{}`, r.SubstituteCSS(`.xdddddd{}`))
}

func TestRestorer_SubstituteMarkup(t *testing.T) {
	r := newTestRestorer(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "class attribute plain",
			in:   `<div class="xcccccc">xcccccc</div>`,
			want: `<div class="sm:p-4">sm:p-4</div>`,
		},
		{
			name: "style element escaped",
			in:   `<style>.xcccccc{}</style>`,
			want: `<style>.sm\:p-4{}</style>`,
		},
		{
			name: "inline svg style escaped",
			in:   `<svg><style>.xdddddd{}</style><path class="xdddddd"/></svg>`,
			want: `<svg><style>.\31 col{}</style><path class="1col"/></svg>`,
		},
		{
			name: "script stays plain",
			in:   `<script>el.add("xcccccc")</script>`,
			want: `<script>el.add("sm:p-4")</script>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.SubstituteMarkup(tt.in))
		})
	}
}

func TestNewRestorer_DuplicateValue(t *testing.T) {
	_, err := NewRestorer([]Pair{{"btn", "x1"}, {"card", "x1"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateValue)
}

func TestRestorer_Restore(t *testing.T) {
	r := newTestRestorer(t)

	t.Run("stylesheet formatted", func(t *testing.T) {
		got, err := r.Restore(Stylesheet, `.xaaaaaa{color:red}.xbbbbbb .xaaaaaa{margin:0}`)
		require.NoError(t, err)
		assert.Equal(t, ".btn {\n  color: red;\n}\n\n.card .btn {\n  margin: 0;\n}\n", got)
	})

	t.Run("markup formatted", func(t *testing.T) {
		got, err := r.Restore(Markup, `<div class="xbbbbbb"><p class="xaaaaaa">Hi</p></div>`)
		require.NoError(t, err)
		assert.Contains(t, got, `<div class="card">`)
		assert.Contains(t, got, `<p class="btn">`)
		assert.Contains(t, got, "\n")
	})

	t.Run("inline style in markup escaped as css", func(t *testing.T) {
		got, err := r.Restore(Markup, `<style>.xcccccc{color:red}.xdddddd{color:blue}</style><p class="xcccccc">Hi</p>`)
		require.NoError(t, err)
		assert.Contains(t, got, `.sm\:p-4{color:red}`)
		assert.Contains(t, got, `.\31 col{color:blue}`)
		assert.Contains(t, got, `<p class="sm:p-4">`)
	})

	t.Run("script formatted", func(t *testing.T) {
		got, err := r.Restore(Script, `function f(){el.add("xaaaaaa");}`)
		require.NoError(t, err)
		assert.Equal(t, "function f(){\n  el.add(\"btn\");\n}\n", got)
	})

	t.Run("formatting failure keeps restored content", func(t *testing.T) {
		got, err := r.Restore(Stylesheet, `.xaaaaaa{color:red`)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnbalanced)
		assert.Equal(t, `.btn{color:red`, got)
	})

	t.Run("verbatim substituted only", func(t *testing.T) {
		got, err := r.Restore(Verbatim, "xaaaaaa\n")
		require.NoError(t, err)
		assert.Equal(t, "btn\n", got)
	})
}

func TestEscapeIdent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"btn", "btn"},
		{"btn--primary", "btn--primary"},
		{"sm:p-4", `sm\:p-4`},
		{"w-1/2", `w-1\/2`},
		{"1col", `\31 col`},
		{"-1x", `-\31 x`},
		{"-", `\-`},
		{"-btn", "-btn"},
		{"été", "été"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeIdent(tt.in))
			assert.Equal(t, tt.in, unescapeIdent(escapeIdent(tt.in)))
		})
	}
}
