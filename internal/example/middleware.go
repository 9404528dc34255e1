// Package example implements example middleware in an outside package.
package example

import (
	"context"

	"github.com/advdv/rhttp"
	"go.uber.org/zap"
)

// ctxKey type scopes middleware values.
type ctxKey string

// Middleware provides an example for middleware that adds a request-scoped
// logger to the context.
func Middleware(logs *zap.Logger) rhttp.Middleware {
	return func(n rhttp.Handler) rhttp.Handler {
		return rhttp.HandlerFunc(func(ctx context.Context, w rhttp.ResponseWriter, r *rhttp.Request) (rhttp.Body, error) {
			logs := logs.With(zap.String("method", r.Method))

			ctx = context.WithValue(ctx, ctxKey("zap"), logs)

			return n.ServeRHTTP(ctx, w, r)
		})
	}
}

// Log returns the logger that [Middleware] added to the context.
func Log(ctx context.Context) *zap.Logger {
	v, _ := ctx.Value(ctxKey("zap")).(*zap.Logger)

	return v
}
