// Package apierror defines the domain error taxonomy and the JSON error
// envelope. All errors crossing the presentation boundary go through this
// package so that internal details (stack traces, SQL errors) never leak
// to the terminal UI.
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies a domain failure.
type Kind int

const (
	// KindConflict: the operation collides with existing state
	// (e.g. a second open session for the same operator).
	KindConflict Kind = iota
	// KindInvalidState: the target exists but is in the wrong lifecycle
	// state (e.g. closing an already-closed session).
	KindInvalidState
	// KindPrecondition: a required condition is missing
	// (e.g. creating a sale with no open session).
	KindPrecondition
	// KindTransport: network/timeout failure talking to the central API,
	// surfaced after the retry ceiling.
	KindTransport
	// KindPersistence: local storage failure, never retried automatically.
	KindPersistence
)

// Error is a classified domain error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Msg: msg} }
func InvalidState(msg string) *Error { return &Error{Kind: KindInvalidState, Msg: msg} }
func Precondition(msg string) *Error { return &Error{Kind: KindPrecondition, Msg: msg} }

func Transport(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Msg: msg, Err: err}
}

func Persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

// Is reports whether err is an apierror of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Status maps a domain error to an HTTP status code. Unclassified errors
// default to 400 so callers see a structured failure, not a 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusBadRequest
	}
	switch e.Kind {
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	case KindPrecondition:
		return http.StatusPreconditionFailed
	case KindTransport:
		return http.StatusBadGateway
	case KindPersistence:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// APIError is the canonical error envelope for all 4xx/5xx responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}
