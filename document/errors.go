package document

import (
	"errors"
	"fmt"
)

var (
	// ErrParse reports a buffer that is not a well-formed document.
	ErrParse = errors.New("document: malformed xml")

	errNoRoot = errors.New("no root element")
)

// ParseError wraps the underlying decoder failure.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrParse, e.Cause)
}

// Is reports ErrParse equivalence.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Cause }
