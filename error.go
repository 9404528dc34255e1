package rhttp

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Code is an error code that mirrors the http status codes. It is used to create errors that can
// cross middleware layers while keeping enough structure to turn them into a response.
type Code int

const (
	CodeUnknown               Code = 0
	CodeBadRequest            Code = http.StatusBadRequest
	CodeUnauthorized          Code = http.StatusUnauthorized
	CodeForbidden             Code = http.StatusForbidden
	CodeNotFound              Code = http.StatusNotFound
	CodeMethodNotAllowed      Code = http.StatusMethodNotAllowed
	CodeNotAcceptable         Code = http.StatusNotAcceptable
	CodeRequestTimeout        Code = http.StatusRequestTimeout
	CodeConflict              Code = http.StatusConflict
	CodeGone                  Code = http.StatusGone
	CodeLengthRequired        Code = http.StatusLengthRequired
	CodeRequestEntityTooLarge Code = http.StatusRequestEntityTooLarge
	CodeUnsupportedMediaType  Code = http.StatusUnsupportedMediaType
	CodeUnprocessableEntity   Code = http.StatusUnprocessableEntity
	CodeTooManyRequests       Code = http.StatusTooManyRequests
	CodeInternalServerError   Code = http.StatusInternalServerError
	CodeNotImplemented        Code = http.StatusNotImplemented
	CodeBadGateway            Code = http.StatusBadGateway
	CodeServiceUnavailable    Code = http.StatusServiceUnavailable
	CodeGatewayTimeout        Code = http.StatusGatewayTimeout
)

// Error describes an http error. The underlying error's message is considered client-facing
// for 4xx codes: the default error handler writes it into the response body.
type Error struct {
	code Code
	err  error
	meta map[string]any
}

// NewError inits a new error given the error code.
func NewError(c Code, underlying error) *Error {
	return &Error{code: c, err: underlying}
}

// NewErrorf inits a new error with a formatted message. The message carries a stack
// trace through the cockroachdb errors package.
func NewErrorf(c Code, format string, args ...any) *Error {
	return &Error{code: c, err: errors.Newf(format, args...)}
}

// WithMeta returns a copy of the error with the key-value pair added to its metadata. It
// allows attaching structured detail (such as an underlying parse error) without
// changing the client-facing message.
func (e *Error) WithMeta(key string, val any) *Error {
	clone := &Error{code: e.code, err: e.err, meta: make(map[string]any, len(e.meta)+1)}
	for k, v := range e.meta {
		clone.meta[k] = v
	}

	clone.meta[key] = val

	return clone
}

func (e *Error) Code() Code           { return e.code }
func (e *Error) Meta() map[string]any { return e.meta }
func (e *Error) Unwrap() error        { return e.err }

// Message returns the client-facing message: the underlying error's text without
// the status prefix that [Error.Error] adds.
func (e *Error) Message() string { return e.err.Error() }

func (e *Error) Error() string {
	status := http.StatusText(int(e.Code()))
	if status == "" {
		status = "Unknown"
	}

	return fmt.Sprintf("%s: %s", status, e.err.Error())
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if herr, ok := asError(err); ok {
		return herr.Code()
	}

	return CodeUnknown
}

// asError uses errors.As to unwrap any error and look for an rhttp *Error.
func asError(err error) (*Error, bool) {
	var herr *Error
	ok := errors.As(err, &herr)

	return herr, ok
}

// Redirect is an error value that signals a non-error short-circuit of the normal
// response path. The serve adapter recognizes it and responds with the redirect
// status and a Location header instead of treating it as a failure.
type Redirect struct {
	status   int
	location string
}

// NewRedirect inits a redirect signal to the given location. The status defaults
// to 303 See Other when none is given.
func NewRedirect(location string, status ...int) *Redirect {
	red := &Redirect{status: http.StatusSeeOther, location: location}
	if len(status) > 0 {
		red.status = status[0]
	}

	return red
}

func (r *Redirect) Status() int      { return r.status }
func (r *Redirect) Location() string { return r.location }

func (r *Redirect) Error() string {
	return fmt.Sprintf("redirect %d to %s", r.status, r.location)
}

// AsRedirect uses errors.As to unwrap any error and look for a redirect signal.
func AsRedirect(err error) (*Redirect, bool) {
	var red *Redirect
	ok := errors.As(err, &red)

	return red, ok
}
