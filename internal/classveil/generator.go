package classveil

import (
	"fmt"
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Defaults for replacement identifiers: "x" followed by six characters
// from [a-z0-9] gives 36^6 (~2.2 billion) distinct tokens.
const (
	DefaultPrefix      = "x"
	DefaultLength      = 6
	DefaultMaxAttempts = 1000

	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// prefixPattern matches prefixes that start a legal CSS identifier.
var prefixPattern = regexp.MustCompile(`^-?[A-Za-z_][A-Za-z0-9_-]*$`)

// Source produces size random characters drawn from alphabet.
type Source func(alphabet string, size int) (string, error)

// Generator produces short random identifiers that are always legal CSS
// class names.
type Generator struct {
	prefix      string
	length      int
	maxAttempts int
	source      Source
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithPrefix sets the non-digit prefix placed before the random part.
func WithPrefix(prefix string) GeneratorOption {
	return func(g *Generator) { g.prefix = prefix }
}

// WithLength sets the number of random characters after the prefix.
func WithLength(n int) GeneratorOption {
	return func(g *Generator) { g.length = n }
}

// WithMaxAttempts caps the retries of GenerateUnique.
func WithMaxAttempts(n int) GeneratorOption {
	return func(g *Generator) { g.maxAttempts = n }
}

// WithSource replaces the random source (tests use a deterministic one).
func WithSource(src Source) GeneratorOption {
	return func(g *Generator) { g.source = src }
}

// NewGenerator creates a Generator, validating the resulting configuration.
func NewGenerator(opts ...GeneratorOption) (*Generator, error) {
	g := &Generator{
		prefix:      DefaultPrefix,
		length:      DefaultLength,
		maxAttempts: DefaultMaxAttempts,
		source:      gonanoid.Generate,
	}
	for _, opt := range opts {
		opt(g)
	}

	if !prefixPattern.MatchString(g.prefix) {
		return nil, &OpError{Op: "new generator", Kind: KindConfig,
			Err: fmt.Errorf("prefix %q does not start a valid CSS class name", g.prefix)}
	}
	if g.length < 1 {
		return nil, &OpError{Op: "new generator", Kind: KindConfig,
			Err: fmt.Errorf("length must be at least 1, got %d", g.length)}
	}
	if g.maxAttempts < 1 {
		return nil, &OpError{Op: "new generator", Kind: KindConfig,
			Err: fmt.Errorf("max attempts must be at least 1, got %d", g.maxAttempts)}
	}
	return g, nil
}

// Generate returns one random identifier. It has no side effects.
func (g *Generator) Generate() (string, error) {
	random, err := g.source(alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("random source: %w", err)
	}
	return g.prefix + random, nil
}

// GenerateUnique keeps generating until it finds an identifier for which
// exists reports false. After maxAttempts rejections it fails with
// ErrGeneratorExhausted: the prefix/length combination is too small for the
// number of classes in the input.
func (g *Generator) GenerateUnique(exists func(string) bool) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		id, err := g.Generate()
		if err != nil {
			return "", err
		}
		if !exists(id) {
			return id, nil
		}
	}
	return "", &OpError{
		Op:   "generate identifier",
		Kind: KindGeneration,
		Err: fmt.Errorf("%w: no unique value after %d attempts (prefix %q, length %d)",
			ErrGeneratorExhausted, g.maxAttempts, g.prefix, g.length),
	}
}
