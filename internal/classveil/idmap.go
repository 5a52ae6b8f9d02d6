package classveil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// ArtifactName is the file name of the serialized map at the output root.
const ArtifactName = "class-map.json"

// Pair is one original -> replacement entry of the map.
type Pair struct {
	Original    string
	Replacement string
}

// Map is the original -> replacement table of one build run. Resolve is the
// only way entries are added, which keeps keys and values unique.
type Map struct {
	mu     sync.Mutex
	gen    *Generator
	index  map[string]string
	values map[string]bool
	order  []Pair
}

// NewMap creates an empty map that allocates replacements with gen.
func NewMap(gen *Generator) *Map {
	return &Map{
		gen:    gen,
		index:  make(map[string]string),
		values: make(map[string]bool),
	}
}

// Resolve returns the replacement for original, allocating one on first
// sight. Repeated calls with the same original return the same value.
func (m *Map) Resolve(original string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if replacement, ok := m.index[original]; ok {
		return replacement, nil
	}

	replacement, err := m.gen.GenerateUnique(func(candidate string) bool {
		return m.values[candidate]
	})
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", original, err)
	}

	m.index[original] = replacement
	m.values[replacement] = true
	m.order = append(m.order, Pair{Original: original, Replacement: replacement})
	return replacement, nil
}

// Lookup returns the replacement for original without allocating.
func (m *Map) Lookup(original string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	replacement, ok := m.index[original]
	return replacement, ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// Pairs returns all entries in insertion order.
func (m *Map) Pairs() []Pair {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Pair, len(m.order))
	copy(out, m.order)
	return out
}

// MarshalJSON encodes the map as a flat JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	return marshalPairs(m.Pairs())
}

func marshalPairs(pairs []Pair) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Original)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Replacement)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteArtifact writes the map to path as indented JSON.
func (m *Map) WriteArtifact(path string) error {
	raw, err := m.MarshalJSON()
	if err != nil {
		return &OpError{Op: "serialize map", Kind: KindArtifact, Path: path, Err: err}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return &OpError{Op: "serialize map", Kind: KindArtifact, Path: path, Err: err}
	}
	out.WriteByte('\n')

	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return &OpError{Op: "write map", Kind: KindIO, Path: path, Err: err}
	}
	return nil
}

// ReadArtifact loads the pairs of a map file in file order.
func ReadArtifact(path string) ([]Pair, error) {
	// #nosec G304 - path comes from trusted configuration
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpError{Op: "read map", Kind: KindArtifact, Path: path,
			Err: fmt.Errorf("%w: %v", ErrInvalidArtifact, err)}
	}
	defer f.Close()

	pairs, err := DecodePairs(f)
	if err != nil {
		return nil, &OpError{Op: "read map", Kind: KindArtifact, Path: path, Err: err}
	}
	return pairs, nil
}

// DecodePairs decodes a flat JSON object of strings, keeping key order.
// Duplicate keys are rejected instead of letting the last one win.
func DecodePairs(r io.Reader) ([]Pair, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidArtifact)
	}

	var pairs []Pair
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string key", ErrInvalidArtifact)
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: value of %q: %v", ErrInvalidArtifact, key, err)
		}

		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidArtifact, key)
		}
		seen[key] = true
		pairs = append(pairs, Pair{Original: key, Replacement: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return pairs, nil
}

// Invert builds the replacement -> original table. Two originals sharing a
// replacement yield a *DuplicateValueError.
func Invert(pairs []Pair) (map[string]string, error) {
	inverse := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if prev, ok := inverse[p.Replacement]; ok {
			return nil, &OpError{
				Op:   "invert map",
				Kind: KindInversion,
				Err:  &DuplicateValueError{Replacement: p.Replacement, First: prev, Second: p.Original},
			}
		}
		inverse[p.Replacement] = p.Original
	}
	return inverse, nil
}
