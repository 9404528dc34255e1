// Package rhttp provides request routing and response shaping on top of the
// standard library's HTTP server.
//
// # Overview
//
// rhttp normalizes an incoming request, matches it against an ordered list of
// path templates, invokes the matching handler and converts the handler's
// return value (or returned error) into a properly framed HTTP response. The
// surrounding server concerns, listening, TLS termination and HTTP parsing,
// stay with net/http.
//
// A minimal example:
//
//	router := rhttp.NewRouter()
//	router.Route("GET", "/hello/:name", func(ctx context.Context, w rhttp.ResponseWriter, r *rhttp.Request) (rhttp.Body, error) {
//	    return rhttp.Text("Hello " + r.Param("name")), nil
//	})
//
//	http.ListenAndServe(":8080", rhttp.Serve(router))
//
// # Path templates
//
// Route templates use path-to-regexp syntax: named parameters are declared as
// ":name", with "?" (optional), "*" (zero or more segments) and "+" (one or
// more segments) modifiers. Matching is case-sensitive and anchored to the full
// path. Matched parameters are bound on the request and read with
// [Request.Param]. Named routes can be reversed back into URLs with
// [Router.Reverse].
//
// # Handler signature
//
// rhttp handlers differ from standard http.Handlers in three ways:
//
//   - They receive a [*Request] that decorates the native request with cached
//     derived values (protocol, resolved url, query, body)
//   - They write to a [ResponseWriter] that buffers output until the response
//     is finalized
//   - They return the response body as a [Body] value next to an error
//
// The handler signature is:
//
//	func(ctx context.Context, w rhttp.ResponseWriter, r *rhttp.Request) (rhttp.Body, error)
//
// Return value semantics: [NoContent] responds 204 with an empty body, the zero
// [Body] suppresses the automatic response (the handler wrote one itself), any
// other variant is encoded with the response's current status code, defaulting
// to 200. Strings are written as-is, values are JSON-serialized with an
// application/json content type, byte buffers and streams default to an
// octet-stream content type. A Content-Type set by the handler is never
// overridden.
//
// # Request body
//
// The request body is read at most once and cached: [Request.BodyBytes],
// [Request.BodyText] and [Request.BodyJSON] all share the buffer. Reads are
// bounded by the configured body limit (default "1mb"), exceeding it yields a
// 413 error. Routes can attach a [Validator] that runs against the parsed JSON
// body before the handler, rejections respond 422.
//
// # Error handling
//
// Handlers signal failures by returning errors. Errors created with [NewError]
// or [NewErrorf] carry a status code and a client-facing message. A [Redirect]
// returned as an error short-circuits into a 3xx response with a Location
// header. Anything else becomes a 500 whose body is the bare status text, or
// the error with its stack trace when development mode is on. The conversion is
// replaceable through [WithErrorHandler]; the buffered writer guarantees that
// at most one response is finalized either way.
//
// # Middleware
//
// Middleware wraps handlers for cross-cutting concerns:
//
//	router.Use(func(next rhttp.Handler) rhttp.Handler {
//	    return rhttp.HandlerFunc(func(ctx context.Context, w rhttp.ResponseWriter, r *rhttp.Request) (rhttp.Body, error) {
//	        start := time.Now()
//	        body, err := next.ServeRHTTP(ctx, w, r)
//	        log.Printf("%s %s took %v", r.Method, r.URL.Path, time.Since(start))
//	        return body, err
//	    })
//	})
//
// Middleware can inspect and transform errors and bodies, or reset the buffered
// response and replace it entirely.
package rhttp
