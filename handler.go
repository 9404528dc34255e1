package rhttp

import (
	"context"
	"net/http"
)

// ResponseWriter implements http.ResponseWriter but the underlying bytes are buffered
// until the response is finalized. This allows the error path to reset the writer and
// formulate a completely new response.
type ResponseWriter interface {
	http.ResponseWriter
	Reset()
	Free()
	FlushBuffer() error
	Status() int
	Flushed() bool
}

// Handler mirrors http.Handler but it receives the decorated request and returns the
// response body as a value next to an error. The serve adapter encodes the returned
// body, see [Body] for the return value semantics.
type Handler interface {
	ServeRHTTP(ctx context.Context, w ResponseWriter, r *Request) (Body, error)
}

// HandlerFunc allows casting a function to an implementation of [Handler].
type HandlerFunc func(context.Context, ResponseWriter, *Request) (Body, error)

// ServeRHTTP implements the [Handler] interface.
func (f HandlerFunc) ServeRHTTP(ctx context.Context, w ResponseWriter, r *Request) (Body, error) {
	return f(ctx, w, r)
}

// Middleware for cross-cutting concerns with buffered responses.
type Middleware func(Handler) Handler

// Wrap takes the inner handler h and wraps it with middleware. The order is that of the
// Gorilla and Chi router. That is: the middleware provided first is called first and is
// the "outer" most wrapping, the middleware provided last will be the "inner most"
// wrapping (closest to the handler).
func Wrap(h Handler, m ...Middleware) Handler {
	if len(m) < 1 {
		return h
	}

	wrapped := h
	for i := len(m) - 1; i >= 0; i-- {
		wrapped = m[i](wrapped)
	}

	return wrapped
}
