package rhttp

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// Route binds an HTTP method, a path template and a handler (plus an optional
// body validator) into a routable unit. Routes are created at wiring time and
// shared read-only across requests.
type Route struct {
	method    string
	template  string
	pat       *pattern
	handler   Handler
	validator Validator
	name      string
}

// RouteOption configures a route at construction.
type RouteOption func(*Route)

// WithValidator attaches a body validator. On a match the body is parsed as JSON
// and validated before the handler runs, a rejection responds 422.
func WithValidator(v Validator) RouteOption { return func(rt *Route) { rt.validator = v } }

// WithName names the route for URL reversing, see [Router.Reverse].
func WithName(name string) RouteOption { return func(rt *Route) { rt.name = name } }

// NewRoute inits a route. The template uses path-to-regexp syntax: named
// parameters as ":name" with the "?", "*" and "+" modifiers. It panics when the
// template does not compile, like other wiring mistakes in this package.
func NewRoute(method, template string, h Handler, opts ...RouteOption) *Route {
	rt, err := ParseRoute(method, template, h, opts...)
	if err != nil {
		panic("rhttp: " + err.Error())
	}

	return rt
}

// ParseRoute is the error-returning variant of [NewRoute].
func ParseRoute(method, template string, h Handler, opts ...RouteOption) (*Route, error) {
	pat, err := compilePattern(template)
	if err != nil {
		return nil, errors.Wrapf(err, "parse route %s %s", method, template)
	}

	rt := &Route{
		method:   strings.ToUpper(method),
		template: template,
		pat:      pat,
		handler:  h,
	}

	for _, opt := range opts {
		opt(rt)
	}

	return rt, nil
}

// Template returns the route's path template.
func (rt *Route) Template() string { return rt.template }

// Name returns the route's name, empty when unnamed.
func (rt *Route) Name() string { return rt.name }

// match tests the request's method and path against the route. A failed match
// never produces a response, the router moves on to the next route.
func (rt *Route) match(r *Request) (map[string]string, bool) {
	if rt.method != "" && rt.method != r.Method {
		return nil, false
	}

	return rt.pat.Match(r.URL.Path)
}

// serve runs the matched route: validate the body when a validator is attached,
// then invoke the handler. Parameters were bound by the router before the call.
func (rt *Route) serve(ctx context.Context, w ResponseWriter, r *Request) (Body, error) {
	if rt.validator != nil {
		parsed, err := r.ParsedBody()
		if err != nil {
			return Body{}, err
		}

		if err := rt.validator(parsed); err != nil {
			return Body{}, NewError(CodeUnprocessableEntity, errors.Wrap(err, "body failed validation"))
		}
	}

	return rt.handler.ServeRHTTP(ctx, w, r)
}
