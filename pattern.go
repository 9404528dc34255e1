package rhttp

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	pathToRegexp "github.com/soongo/path-to-regexp"
)

// pattern holds the compiled form of a single route template such as
// "/hello/:name" or "/files/:path*". Matching and building are delegated to the
// path-to-regexp library, this type only normalizes its inputs and outputs.
//
// Matching is case-sensitive and anchored to the full path. A failed match is a
// value, not an error.
type pattern struct {
	raw   string
	match func(string) (*pathToRegexp.MatchResult, error)
	build func(interface{}) (string, error)
}

func compilePattern(tpl string) (*pattern, error) {
	match, err := pathToRegexp.Match(tpl, &pathToRegexp.Options{Sensitive: true})
	if err != nil {
		return nil, errors.Wrapf(err, "compile matcher for template %q", tpl)
	}

	build, err := pathToRegexp.Compile(tpl, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "compile builder for template %q", tpl)
	}

	return &pattern{raw: tpl, match: match, build: build}, nil
}

// Match tests the input path against the template and extracts the named
// parameters. Repeated parameters are re-joined with "/" so the mapping stays
// string-valued.
func (p *pattern) Match(path string) (map[string]string, bool) {
	res, err := p.match(path)
	if err != nil || res == nil {
		return nil, false
	}

	params := make(map[string]string, len(res.Params))
	for key, val := range res.Params {
		params[paramKey(key)] = paramValue(val)
	}

	return params, true
}

// Build constructs a concrete path from parameter values. Values containing "/"
// are split into segments before building, which makes Build the inverse of
// Match for repeated parameters.
func (p *pattern) Build(params map[string]string) (string, error) {
	vals := make(map[string]interface{}, len(params))
	for key, val := range params {
		if strings.Contains(val, "/") {
			vals[key] = strings.Split(val, "/")
			continue
		}

		vals[key] = val
	}

	path, err := p.build(vals)
	if err != nil {
		return "", errors.Wrapf(err, "build path from template %q", p.raw)
	}

	return path, nil
}

func paramKey(key interface{}) string {
	switch kt := key.(type) {
	case string:
		return kt
	case int:
		return strconv.Itoa(kt)
	default:
		return ""
	}
}

func paramValue(val interface{}) string {
	switch vt := val.(type) {
	case string:
		return vt
	case []string:
		return strings.Join(vt, "/")
	case []interface{}:
		parts := make([]string, 0, len(vt))
		for _, el := range vt {
			if s, ok := el.(string); ok {
				parts = append(parts, s)
			}
		}

		return strings.Join(parts, "/")
	default:
		return ""
	}
}
