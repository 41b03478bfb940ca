package tax

import (
	"errors"
	"fmt"
)

// Kind classifies computation failures.
type Kind string

const (
	KindMissingField         Kind = "MissingField"
	KindInvalidNumericFormat Kind = "InvalidNumericFormat"
	KindUnknownAnchorField   Kind = "UnknownAnchorField"
	KindMagnitudeExceeded    Kind = "MagnitudeExceeded"
	KindSolverFailure        Kind = "SolverFailure"
)

// Sentinels for errors.Is.
var (
	ErrMissingField         = &Error{Kind: KindMissingField}
	ErrInvalidNumericFormat = &Error{Kind: KindInvalidNumericFormat}
	ErrUnknownAnchorField   = &Error{Kind: KindUnknownAnchorField}
	ErrMagnitudeExceeded    = &Error{Kind: KindMagnitudeExceeded}
	ErrSolverFailure        = &Error{Kind: KindSolverFailure}
)

// Error is returned by Validate and Compute.
type Error struct {
	Kind   Kind
	Fields []string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err was caused by caller input.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindMissingField, KindInvalidNumericFormat, KindUnknownAnchorField, KindMagnitudeExceeded:
		return true
	}
	return false
}

func newError(kind Kind, fields []string, format string, args ...any) *Error {
	return &Error{Kind: kind, Fields: fields, Msg: fmt.Sprintf(format, args...)}
}
