// Package contextutil carries the per-request id and logger through
// context.Context, from the gin middleware down to the services.
package contextutil

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

type requestScope struct {
	id     string
	logger *zap.Logger
}

// WithRequest stores the request id and a logger already tagged with it.
func WithRequest(ctx context.Context, requestID string, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, requestScope{id: requestID, logger: logger})
}

func scope(ctx context.Context) (requestScope, bool) {
	if ctx == nil {
		return requestScope{}, false
	}
	s, ok := ctx.Value(contextKey{}).(requestScope)
	return s, ok
}

// RequestID is empty outside a request, e.g. in the CLI.
func RequestID(ctx context.Context) string {
	s, _ := scope(ctx)
	return s.id
}

// Logger returns the request logger, then fallback, then a no-op logger.
func Logger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if s, ok := scope(ctx); ok && s.logger != nil {
		return s.logger
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}

// Tagged returns base with a request_id field when ctx carries one. Services
// use it to keep their own logger name while still tagging each line.
func Tagged(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	if rid := RequestID(ctx); rid != "" {
		return base.With(zap.String("request_id", rid))
	}
	return base
}
