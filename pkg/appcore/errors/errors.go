// Package errors provides the error taxonomy shared by the appcore packages.
//
// appcore has a single failure class: an invalid argument (wrong value or a
// missing required value). Operations that detect one leave state untouched
// and return an *InvalidArgumentError. Callers that want fail-silent
// behavior ignore the returned error; callers that want diagnostics inspect it
// with errors.Is(err, ErrInvalidArgument) or errors.As.
package errors

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the sentinel matched by every InvalidArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError describes a rejected call.
type InvalidArgumentError struct {
	// Op is the operation that rejected the call (e.g. "event.On").
	Op string

	// Arg names the offending argument.
	Arg string

	// Reason is a short human-readable explanation.
	Reason string

	// Err is an optional, more specific cause (e.g. config.ErrUnknownKey).
	Err error
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	msg := fmt.Sprintf("%s: invalid argument %s", e.Op, e.Arg)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the specific cause, if any.
func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// Invalid creates an InvalidArgumentError.
func Invalid(op, arg, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{
		Op:     op,
		Arg:    arg,
		Reason: reason,
	}
}

// InvalidWrap creates an InvalidArgumentError with a specific cause.
func InvalidWrap(op, arg string, err error) *InvalidArgumentError {
	return &InvalidArgumentError{
		Op:  op,
		Arg: arg,
		Err: err,
	}
}

// IsInvalidArgument reports whether err is, or wraps, an invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
