package classveil

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrSourceNotFound     = errors.New("source directory not found")
	ErrGeneratorExhausted = errors.New("identifier generator exhausted")
	ErrDuplicateValue     = errors.New("duplicate replacement value")
	ErrInvalidArtifact    = errors.New("invalid class map artifact")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindConfig     ErrorKind = "configuration"
	KindGeneration ErrorKind = "generation"
	KindInversion  ErrorKind = "inversion"
	KindArtifact   ErrorKind = "artifact"
	KindIO         ErrorKind = "io"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err carries an OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// DuplicateValueError reports two originals sharing one replacement in a
// persisted map. Such a map cannot be inverted without losing one of them.
type DuplicateValueError struct {
	Replacement string
	First       string
	Second      string
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("replacement %q is shared by %q and %q", e.Replacement, e.First, e.Second)
}

// Is makes errors.Is(err, ErrDuplicateValue) match.
func (e *DuplicateValueError) Is(target error) bool {
	return target == ErrDuplicateValue
}
