package rhttp

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
)

// Router dispatches to an ordered list of routes: the first route whose method
// and path template both match wins, at most one handler runs per request. When
// nothing matches, a default 404 responder answers. Middleware registered with
// Use wraps the whole dispatch.
type Router struct {
	routes   []*Route
	mounts   []mount
	reverser *Reverser
	notFound Handler

	middlewares struct {
		captured atomic.Bool
		buffered []Middleware
	}

	chainOnce sync.Once
	chain     Handler
}

type mount struct {
	prefix  string
	handler Handler
}

// NewRouter inits a router, optionally with an initial set of routes.
func NewRouter(routes ...*Route) *Router {
	rtr := &Router{
		reverser: NewReverser(),
		notFound: HandlerFunc(func(_ context.Context, w ResponseWriter, _ *Request) (Body, error) {
			NotFound(w)

			return Body{}, nil
		}),
	}

	for _, rt := range routes {
		rtr.Add(rt)
	}

	return rtr
}

// Use allows providing of middleware. It must be called before the router
// serves its first request.
func (rtr *Router) Use(mw ...Middleware) {
	rtr.ensureNoUseAfterServe()
	rtr.middlewares.buffered = append(rtr.middlewares.buffered, mw...)
}

// Add registers a route at the end of the dispatch order. Named routes become
// reversible, a duplicate name panics.
func (rtr *Router) Add(rt *Route) *Router {
	if rt.name != "" {
		if err := rtr.reverser.addCompiled(rt.name, rt.pat); err != nil {
			panic("rhttp: " + err.Error())
		}
	}

	rtr.routes = append(rtr.routes, rt)

	return rtr
}

// Route is a convenience that constructs and registers a route in one call.
func (rtr *Router) Route(method, template string, h HandlerFunc, opts ...RouteOption) *Router {
	return rtr.Add(NewRoute(method, template, h, opts...))
}

// Mount registers a handler for all paths below the given prefix. The mounted
// handler observes the request with the prefix stripped from the path. Routes
// take precedence over mounts.
func (rtr *Router) Mount(prefix string, h Handler) *Router {
	rtr.mounts = append(rtr.mounts, mount{prefix: strings.TrimSuffix(prefix, "/"), handler: h})

	return rtr
}

// NotFoundHandler replaces the default 404 responder.
func (rtr *Router) NotFoundHandler(h Handler) *Router {
	rtr.notFound = h

	return rtr
}

// Reverse builds the url for the named route from parameter values.
func (rtr *Router) Reverse(name string, params map[string]string) (string, error) {
	return rtr.reverser.Reverse(name, params)
}

// ServeRHTTP implements [Handler], so routers compose like any other handler.
// Request goroutines share the router read-only: the middleware chain is built
// exactly once and the route list is immutable after wiring.
func (rtr *Router) ServeRHTTP(ctx context.Context, w ResponseWriter, r *Request) (Body, error) {
	rtr.chainOnce.Do(func() {
		rtr.middlewares.captured.Store(true)
		rtr.chain = Wrap(HandlerFunc(rtr.dispatch), rtr.middlewares.buffered...)
	})

	return rtr.chain.ServeRHTTP(ctx, w, r)
}

func (rtr *Router) dispatch(ctx context.Context, w ResponseWriter, r *Request) (Body, error) {
	for _, rt := range rtr.routes {
		if params, ok := rt.match(r); ok {
			r.bindParams(params)

			return rt.serve(ctx, w, r)
		}
	}

	for _, m := range rtr.mounts {
		if r.URL.Path == m.prefix || strings.HasPrefix(r.URL.Path, m.prefix+"/") {
			return m.handler.ServeRHTTP(ctx, w, stripPrefix(m.prefix, r))
		}
	}

	return rtr.notFound.ServeRHTTP(ctx, w, r)
}

func (rtr *Router) ensureNoUseAfterServe() {
	if rtr.middlewares.captured.Load() {
		panic("rhttp: cannot call Use() after the router started serving")
	}
}

// stripPrefix clones the request with the mount prefix removed from the path.
// The body caches carry over so the stream is still consumed at most once, the
// url-derived caches are dropped because the path changed.
func stripPrefix(prefix string, r *Request) *Request {
	stripped := strings.TrimPrefix(r.URL.Path, prefix)
	if stripped == "" {
		stripped = "/"
	}

	inner := new(http.Request)
	*inner = *r.Request
	inner.URL = new(url.URL)
	*inner.URL = *r.URL
	inner.URL.Path = stripped

	if r.URL.RawPath != "" {
		// RawPath carries the original escaping, so the prefix must be
		// trimmed in its escaped form.
		escaped := (&url.URL{Path: prefix}).EscapedPath()

		switch rawStripped := strings.TrimPrefix(r.URL.RawPath, escaped); {
		case rawStripped == "":
			inner.URL.RawPath = "/"
		case rawStripped != r.URL.RawPath:
			inner.URL.RawPath = rawStripped
		default:
			inner.URL.RawPath = ""
		}
	}

	clone := *r
	clone.Request = inner
	clone.resolved = nil
	clone.query = nil
	clone.queryDone = false

	return &clone
}
