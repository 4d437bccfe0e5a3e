package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the article does not exist. Not retriable.
	ErrNotFound = errors.New("article not found")
	// ErrTransient: the store could not be reached or failed unexpectedly.
	ErrTransient = errors.New("like store unavailable")
	// ErrInvalidArgument: missing fingerprint or non-positive article id.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error carries one of the kinds above plus the operation that failed. The
// underlying store error is kept for logs and never rendered to clients.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

func NewError(op string, kind error, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Classify wraps a store error into the taxonomy. Errors that already carry a
// kind keep it; everything else is transient.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NewError(op, ErrNotFound, nil)
	case errors.Is(err, ErrInvalidArgument):
		return NewError(op, ErrInvalidArgument, nil)
	default:
		return NewError(op, ErrTransient, err)
	}
}

// KindName is a stable label for metrics and API error codes.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "transient"
	}
}
