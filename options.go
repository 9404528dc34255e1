package rhttp

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
)

// ErrorHandler converts an error that escaped the handler chain into a response.
// Implementations must produce at most one response, the buffered writer they
// receive was reset before the call.
type ErrorHandler func(w ResponseWriter, r *Request, err error)

// Options configure the serve adapter and the request decoration. The env tags
// allow parsing the scalar settings from RHTTP_-prefixed environment variables,
// see [OptionsFromEnv].
type Options struct {
	// TrustProxy makes the protocol resolution honor the X-Forwarded-Proto header.
	TrustProxy bool `env:"TRUST_PROXY"`
	// BodyLimit bounds request body reads, expressed as a size string such as "1mb".
	BodyLimit string `env:"BODY_LIMIT" envDefault:"1mb"`
	// BufferLimit bounds the buffered response in bytes, -1 disables the limit.
	BufferLimit int `env:"BUFFER_LIMIT" envDefault:"-1"`
	// Development switches unhandled 500 responses to include the error's stack trace.
	Development bool `env:"DEVELOPMENT"`

	// ErrorHandler replaces the default error-to-response conversion.
	ErrorHandler ErrorHandler `env:"-"`
	// Logs receives the events the adapter cannot surface through a response.
	Logs Logger `env:"-"`

	bodyLimit int64
}

// Option configures the serve adapter.
type Option func(*Options)

// WithTrustProxy sets whether the forwarded-protocol header is honored.
func WithTrustProxy(v bool) Option { return func(o *Options) { o.TrustProxy = v } }

// WithBodyLimit sets the request body limit as a size string, e.g "10b" or "1mb".
func WithBodyLimit(limit string) Option { return func(o *Options) { o.BodyLimit = limit } }

// WithBufferLimit sets the response buffer limit in bytes, -1 disables it.
func WithBufferLimit(n int) Option { return func(o *Options) { o.BufferLimit = n } }

// WithDevelopment toggles development mode.
func WithDevelopment(v bool) Option { return func(o *Options) { o.Development = v } }

// WithErrorHandler replaces the default error-to-response conversion.
func WithErrorHandler(h ErrorHandler) Option { return func(o *Options) { o.ErrorHandler = h } }

// WithLogger sets the logger for events that cannot become responses.
func WithLogger(l Logger) Option { return func(o *Options) { o.Logs = l } }

// WithOptions replaces the whole options struct, e.g one parsed from the
// environment. Options passed after it still apply.
func WithOptions(opts Options) Option { return func(o *Options) { *o = opts } }

// OptionsFromEnv parses options from RHTTP_-prefixed environment variables.
func OptionsFromEnv() (Options, error) {
	opts := defaultOptions()
	if err := env.ParseWithOptions(&opts, env.Options{Prefix: "RHTTP_"}); err != nil {
		return opts, errors.Wrap(err, "parse options from environment")
	}

	return opts, nil
}

func defaultOptions() Options {
	return Options{
		BodyLimit:   "1mb",
		BufferLimit: -1,
	}
}

// resolveOptions applies the options and validates the settings that are parsed
// at wiring time. Invalid wiring-time settings panic, like other registration
// mistakes in this package.
func resolveOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.BodyLimit == "" {
		o.BodyLimit = "1mb"
	}

	limit, err := humanize.ParseBytes(o.BodyLimit)
	if err != nil {
		panic("rhttp: invalid body limit: " + o.BodyLimit)
	}

	o.bodyLimit = int64(limit)

	if o.Logs == nil {
		o.Logs = NewStdLogger(log.Default())
	}

	return o
}
