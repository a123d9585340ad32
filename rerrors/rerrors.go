// Package rerrors carries the error taxonomy used across the risk
// engine: every failure names a Kind and the offending identifier,
// instead of a bare wrapped string.
package rerrors

import "fmt"

// Kind classifies a failure so callers can branch on it with errors.As
// instead of string matching.
type Kind int

const (
	// InvalidInput covers negative prices/vols, mismatched tenor/rate
	// lengths, empty ticker lists.
	InvalidInput Kind = iota
	// DimensionMismatch covers a correlation matrix whose size does not
	// match its ticker list, or a non-square matrix.
	DimensionMismatch
	// NonPositiveDefinite covers a Cholesky factorization failure.
	NonPositiveDefinite
	// UnknownTicker covers a spot/curve/surface lookup with no default.
	UnknownTicker
	// NumericalError covers pricing math underflow/overflow or a
	// disallowed state discovered mid-revaluation.
	NumericalError
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case DimensionMismatch:
		return "DimensionMismatch"
	case NonPositiveDefinite:
		return "NonPositiveDefinite"
	case UnknownTicker:
		return "UnknownTicker"
	case NumericalError:
		return "NumericalError"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned by this module. ID is the
// offending identifier (a ticker, a field name) and may be empty.
type Error struct {
	Kind Kind
	ID   string
	Msg  string
}

func (e *Error) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s(%s): %s", e.Kind, e.ID, e.Msg)
}

// New builds an *Error with no offending identifier.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an *Error with no offending identifier from a format string.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WithID builds an *Error naming the offending identifier.
func WithID(kind Kind, id, msg string) *Error {
	return &Error{Kind: kind, ID: id, Msg: msg}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
