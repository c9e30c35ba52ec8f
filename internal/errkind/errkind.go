package errkind

import (
	"errors"
	"fmt"
)

// Code identifies the kind of a conversion failure.
type Code string

const (
	// MalformedTimeline indicates a keyframe timeline broke a lookup invariant
	// (duplicate frame key, value of the wrong kind for its attribute).
	MalformedTimeline Code = "malformed-timeline"
	// UnresolvedCurve indicates an unknown interpolation type reached the evaluator.
	UnresolvedCurve Code = "unresolved-curve"
	// UnresolvedReference indicates a label was referenced but never defined.
	UnresolvedReference Code = "unresolved-reference"
	// DuplicateLabel indicates a label was defined twice.
	DuplicateLabel Code = "duplicate-label"
	// NullReference indicates a reference resolved to offset 0, which is reserved for "absent".
	NullReference Code = "null-reference"
	// MalformedDocument indicates the animation document could not be turned into a motion.
	MalformedDocument Code = "malformed-document"
	// UnknownFormat indicates an output format name has no saver.
	UnknownFormat Code = "unknown-format"
	// MalformedRecord indicates an encoded record could not be decoded.
	MalformedRecord Code = "malformed-record"
)

// Error is a coded conversion error.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code, so that
// errors.Is(err, errkind.New(code, "")) matches any error of that kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates an error of the given kind.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind around err.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Of returns the code of the first *Error in err's chain, or "" if there is none.
func Of(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Has reports whether err's chain contains an error of the given kind.
func Has(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}
