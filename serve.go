package rhttp

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Serve wraps the composed top-level handler into a standard library
// http.Handler. Per request it builds the buffered response writer and the
// decorated request, invokes the handler, encodes the returned body and turns
// escaped errors and redirect signals into responses.
//
// Exactly one response is produced per request. When an error escapes after the
// response already reached the wire, no second response is attempted: the error
// is logged instead, which prevents protocol corruption.
func Serve(h Handler, opts ...Option) http.Handler {
	o := resolveOptions(opts)

	errHandler := o.ErrorHandler
	if errHandler == nil {
		errHandler = func(w ResponseWriter, _ *Request, err error) {
			SendError(w, err, o.Development)
		}
	}

	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		w := newBufferResponse(resp, o.BufferLimit)
		defer w.Free()

		r := newRequest(req, o)

		body, err := invoke(req.Context(), h, w, r, o.Logs)
		if err == nil && !body.IsZero() {
			status := w.Status()
			if body.kind == bodyEmpty {
				status = http.StatusNoContent
			}

			err = Send(w, status, body)
		}

		if err != nil {
			switch red, isRedirect := AsRedirect(err); {
			case w.Flushed():
				o.Logs.LogErrorAfterFinalize(err)
			case isRedirect:
				w.Reset()
				w.Header().Set("Location", red.Location())
				w.WriteHeader(red.Status())
			default:
				if CodeOf(err) == CodeUnknown {
					o.Logs.LogUnhandledServeError(err)
				}

				w.Reset()
				errHandler(w, r, err)
			}
		}

		if ferr := w.FlushBuffer(); ferr != nil {
			o.Logs.LogImplicitFlushError(ferr)
		}
	})
}

// invoke runs the handler while recovering panics into errors, so a panicking
// handler still results in a well-formed 500 response.
func invoke(ctx context.Context, h Handler, w ResponseWriter, r *Request, logs Logger) (body Body, err error) {
	defer func() {
		if v := recover(); v != nil {
			logs.LogHandlerPanic(v)
			body, err = Body{}, errors.Newf("handler panic: %v", v)
		}
	}()

	return h.ServeRHTTP(ctx, w, r)
}
