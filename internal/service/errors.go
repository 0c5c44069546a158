package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers match on these with errors.Is to pick a status
// code; the Msg inside an Error is safe to show to the caller.
var (
	ErrValidation = errors.New("invalid input")
	ErrPermission = errors.New("permission denied")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStore      = errors.New("storage failure")
)

// Error tags a failure with one of the kinds above plus a user-facing
// message. Store failures additionally carry the underlying error, which
// is logged but never surfaced to callers.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Error(), e.Msg, e.Err)
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Message returns the user-facing text for a service error, falling back
// to a generic line for anything unexpected.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		if errors.Is(err, ErrStore) {
			return "internal error"
		}
		return se.Msg
	}
	return "internal error"
}

func validation(msg string) error {
	return &Error{Kind: ErrValidation, Msg: msg}
}

func permission(msg string) error {
	return &Error{Kind: ErrPermission, Msg: msg}
}

func authErr(msg string) error {
	return &Error{Kind: ErrAuth, Msg: msg}
}

func notFound(msg string) error {
	return &Error{Kind: ErrNotFound, Msg: msg}
}

func conflict(msg string) error {
	return &Error{Kind: ErrConflict, Msg: msg}
}

func storeErr(op string, err error) error {
	return &Error{Kind: ErrStore, Msg: op, Err: err}
}
