// Package apperr defines the error kinds services return and the HTTP status
// each one maps to.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindBadRequest
	KindInternal
	// KindUpstream means the Steam store answered with an error or garbage.
	KindUpstream
	// KindUnavailable means the call did not complete: throttled,
	// rate limited by the store, or cancelled.
	KindUnavailable
)

var statusByKind = map[Kind]int{
	KindNotFound:    http.StatusNotFound,
	KindBadRequest:  http.StatusBadRequest,
	KindInternal:    http.StatusInternalServerError,
	KindUpstream:    http.StatusBadGateway,
	KindUnavailable: http.StatusServiceUnavailable,
}

type Error struct {
	Kind    Kind
	Message string
	Op      string // e.g. "steam.AppDetails"
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus falls back to 500 for KindUnknown.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithOp records the operation that failed and returns e.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error   { return New(KindNotFound, message) }
func BadRequest(message string) *Error { return New(KindBadRequest, message) }

func Internal(message string, err error) *Error    { return Wrap(KindInternal, message, err) }
func Upstream(message string, err error) *Error    { return Wrap(KindUpstream, message, err) }
func Unavailable(message string, err error) *Error { return Wrap(KindUnavailable, message, err) }

// GetKind returns the kind of the first *Error in err's chain, or
// KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// Retryable reports whether repeating the same call could succeed.
func Retryable(err error) bool {
	switch GetKind(err) {
	case KindUpstream, KindUnavailable:
		return true
	default:
		return false
	}
}
