package rhttp

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
)

// Request decorates the native request with derived values that are computed at
// most once and cached for the request's lifetime: the resolved protocol, the
// absolute url, the flattened query and the buffered body. It also carries the
// path parameters bound by the matching route.
//
// A Request is owned by a single request-handling goroutine, the cached
// accessors are not safe for concurrent use.
type Request struct {
	*http.Request

	trustProxy bool
	bodyLimit  int64

	params map[string]string

	protocol string
	resolved *url.URL

	query     map[string]string
	queryDone bool

	bodyBuf  []byte
	bodyErr  error
	bodyRead bool

	parsed     gjson.Result
	parsedDone bool
}

// NewRequest decorates a native request. Mostly useful for tests, the serve
// adapter constructs it per inbound request.
func NewRequest(req *http.Request, opts ...Option) *Request {
	return newRequest(req, resolveOptions(opts))
}

func newRequest(req *http.Request, o Options) *Request {
	return &Request{
		Request:    req,
		trustProxy: o.TrustProxy,
		bodyLimit:  o.bodyLimit,
	}
}

// Protocol resolves to "https" when the underlying socket carries TLS and "http"
// otherwise. With proxy trust enabled the first comma-separated token of the
// X-Forwarded-Proto header takes precedence.
func (r *Request) Protocol() string {
	if r.protocol != "" {
		return r.protocol
	}

	proto := "http"
	if r.TLS != nil {
		proto = "https"
	}

	if r.trustProxy {
		if fwd, _, _ := strings.Cut(r.Header.Get("X-Forwarded-Proto"), ","); strings.TrimSpace(fwd) != "" {
			proto = strings.TrimSpace(fwd)
		}
	}

	r.protocol = proto

	return proto
}

// ResolvedURL returns the request url made absolute with the resolved protocol
// and the Host header, computed once per request.
func (r *Request) ResolvedURL() *url.URL {
	if r.resolved != nil {
		return r.resolved
	}

	resolved := *r.URL
	resolved.Scheme = r.Protocol()

	if resolved.Host == "" {
		resolved.Host = r.Host
	}

	r.resolved = &resolved

	return r.resolved
}

// Query returns the query parameters flattened into a single value per key, the
// last value wins. Callers that need multi-value semantics can use the embedded
// request's URL directly.
func (r *Request) Query() map[string]string {
	if r.queryDone {
		return r.query
	}

	vals := r.ResolvedURL().Query()

	r.query = make(map[string]string, len(vals))
	for key, vs := range vals {
		if len(vs) > 0 {
			r.query[key] = vs[len(vs)-1]
		}
	}

	r.queryDone = true

	return r.query
}

// Param returns the named path parameter bound by the matched route, or the
// empty string when the route declared no such parameter.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// Params returns all bound path parameters. The returned map is shared, callers
// must treat it as read-only.
func (r *Request) Params() map[string]string {
	return r.params
}

func (r *Request) bindParams(params map[string]string) {
	r.params = params
}

// BodyBytes reads and buffers the raw request body, bounded by the configured
// body limit. Repeated calls return the cached result, the underlying stream is
// consumed at most once.
func (r *Request) BodyBytes() ([]byte, error) {
	if r.bodyRead {
		return r.bodyBuf, r.bodyErr
	}

	r.bodyRead = true

	if r.Body == nil {
		r.bodyBuf = []byte{}

		return r.bodyBuf, nil
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, r.bodyLimit+1))
	switch {
	case err != nil:
		r.bodyErr = NewError(CodeBadRequest, errors.Wrap(err, "invalid request body"))
	case int64(len(buf)) > r.bodyLimit:
		r.bodyErr = NewErrorf(CodeRequestEntityTooLarge,
			"request body exceeds limit of %s", humanize.Bytes(uint64(r.bodyLimit)))
	default:
		r.bodyBuf = buf
	}

	return r.bodyBuf, r.bodyErr
}

// BodyText decodes the buffered body as a string. The encoding is taken from the
// Content-Type charset parameter, anything outside the utf-8 family is rejected.
func (r *Request) BodyText() (string, error) {
	buf, err := r.BodyBytes()
	if err != nil {
		return "", err
	}

	switch cs := r.charset(); cs {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return string(buf), nil
	default:
		return "", NewErrorf(CodeUnsupportedMediaType, "unsupported charset %q", cs)
	}
}

// BodyJSON parses the buffered body as JSON into v. A parse failure yields a 400
// error that carries the underlying parse error as metadata.
func (r *Request) BodyJSON(v any) error {
	text, err := r.BodyText()
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return NewError(CodeBadRequest, errors.New("invalid JSON body")).
			WithMeta("parse_error", err.Error())
	}

	return nil
}

// ParsedBody returns the body parsed into a gjson result, cached per request. It
// is what body validators run against.
func (r *Request) ParsedBody() (gjson.Result, error) {
	if r.parsedDone {
		return r.parsed, nil
	}

	text, err := r.BodyText()
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.Valid(text) {
		return gjson.Result{}, NewError(CodeBadRequest, errors.New("invalid JSON body"))
	}

	r.parsed = gjson.Parse(text)
	r.parsedDone = true

	return r.parsed, nil
}

func (r *Request) charset() string {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}

	return strings.ToLower(params["charset"])
}
