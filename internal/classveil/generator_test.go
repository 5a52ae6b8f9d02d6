package classveil

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceSource yields "000001", "000002", ... so tests can predict
// replacements.
func sequenceSource() Source {
	n := 0
	return func(_ string, size int) (string, error) {
		n++
		return fmt.Sprintf("%0*d", size, n), nil
	}
}

// constantSource always yields the same value.
func constantSource(value string) Source {
	return func(string, int) (string, error) {
		return value, nil
	}
}

// newTestMap returns a Map whose replacements are x000001, x000002, ...
func newTestMap(t *testing.T) *Map {
	t.Helper()
	gen, err := NewGenerator(WithSource(sequenceSource()))
	require.NoError(t, err)
	return NewMap(gen)
}

func TestGenerator_Format(t *testing.T) {
	tests := []struct {
		name    string
		opts    []GeneratorOption
		pattern string
	}{
		{
			name:    "defaults",
			pattern: `^x[a-z0-9]{6}$`,
		},
		{
			name:    "custom prefix and length",
			opts:    []GeneratorOption{WithPrefix("cv-"), WithLength(4)},
			pattern: `^cv-[a-z0-9]{4}$`,
		},
		{
			name:    "underscore prefix",
			opts:    []GeneratorOption{WithPrefix("_"), WithLength(10)},
			pattern: `^_[a-z0-9]{10}$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(tt.opts...)
			require.NoError(t, err)

			re := regexp.MustCompile(tt.pattern)
			for i := 0; i < 50; i++ {
				id, err := gen.Generate()
				require.NoError(t, err)
				assert.Regexp(t, re, id)
			}
		})
	}
}

func TestNewGenerator_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []GeneratorOption
	}{
		{"empty prefix", []GeneratorOption{WithPrefix("")}},
		{"digit prefix", []GeneratorOption{WithPrefix("1a")}},
		{"prefix with space", []GeneratorOption{WithPrefix("a b")}},
		{"zero length", []GeneratorOption{WithLength(0)}},
		{"zero attempts", []GeneratorOption{WithMaxAttempts(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.opts...)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindConfig))
		})
	}
}

func TestGenerateUnique_SkipsTakenValues(t *testing.T) {
	gen, err := NewGenerator(WithSource(sequenceSource()))
	require.NoError(t, err)

	taken := map[string]bool{"x000001": true, "x000002": true}
	id, err := gen.GenerateUnique(func(s string) bool { return taken[s] })
	require.NoError(t, err)
	assert.Equal(t, "x000003", id)
}

func TestGenerateUnique_Exhausted(t *testing.T) {
	gen, err := NewGenerator(WithSource(constantSource("aaaaaa")), WithMaxAttempts(5))
	require.NoError(t, err)

	calls := 0
	_, err = gen.GenerateUnique(func(string) bool {
		calls++
		return true
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeneratorExhausted)
	assert.True(t, IsKind(err, KindGeneration))
	assert.Equal(t, 5, calls)
}

func TestGenerate_SourceError(t *testing.T) {
	boom := errors.New("entropy unavailable")
	gen, err := NewGenerator(WithSource(func(string, int) (string, error) {
		return "", boom
	}))
	require.NoError(t, err)

	_, err = gen.Generate()
	assert.ErrorIs(t, err, boom)
}
