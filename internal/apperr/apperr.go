// Package apperr defines the error kinds surfaced to API callers and maps
// them onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Kinds. Compare with errors.Is.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrExpiredToken    = errors.New("token expired")
	ErrInvalidToken    = errors.New("invalid token")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error pairs a kind with a message that is safe to show to the caller.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Unauthorized(msg string) error    { return newError(ErrUnauthorized, msg) }
func ExpiredToken(msg string) error    { return newError(ErrExpiredToken, msg) }
func InvalidToken(msg string) error    { return newError(ErrInvalidToken, msg) }
func Conflict(msg string) error        { return newError(ErrConflict, msg) }
func NotFound(msg string) error        { return newError(ErrNotFound, msg) }
func InvalidArgument(msg string) error { return newError(ErrInvalidArgument, msg) }

// Wrap attaches a cause to a kind. The cause is kept for logs only.
func Wrap(kind error, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

var statuses = []struct {
	kind   error
	status int
}{
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrExpiredToken, http.StatusUnauthorized},
	{ErrInvalidToken, http.StatusUnauthorized},
	{ErrConflict, http.StatusConflict},
	{ErrNotFound, http.StatusNotFound},
	{ErrInvalidArgument, http.StatusBadRequest},
}

// Status reports the HTTP status and public message for err. ok is false
// when err does not carry a known kind; callers treat those as internal.
func Status(err error) (status int, message string, ok bool) {
	for _, s := range statuses {
		if errors.Is(err, s.kind) {
			return s.status, publicMessage(err, s.kind), true
		}
	}
	return http.StatusInternalServerError, "internal server error", false
}

func publicMessage(err, kind error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return kind.Error()
}
