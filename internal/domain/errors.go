package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDerivationUnavailable = errors.New("derivation backend not configured")
	ErrDerivationFailed      = errors.New("derivation failed")
	ErrMalformedCandidate    = errors.New("malformed derivation candidate")
)

var (
	ErrEmptyInput   = errors.New("empty actor input")
	ErrInvalidInput = errors.New("invalid actor input")
)

// CompilationError reports a contradictory numeric constraint pair. It is
// fatal to the invocation: no request is sent for a query that can never
// match.
type CompilationError struct {
	MinField string
	MaxField string
	Min      int
	Max      int
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation failed: %s (%d) exceeds %s (%d)", e.MinField, e.Min, e.MaxField, e.Max)
}
