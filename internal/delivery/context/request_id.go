// Package context carries per-request values (request ID, scoped logger, caller)
// from the delivery layer down to the usecases.
package context

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

// ContextKey namespaces the values stored by this package.
type ContextKey string

const (
	KeyRequestID ContextKey = "request_id"
	KeyLogger    ContextKey = "logger"

	// HeaderXRequestID is read from clients and echoed back on every response.
	HeaderXRequestID = "X-Request-Id"

	// AttrRequestID is the log attribute and the event attribute that carry the request ID.
	AttrRequestID = "request_id"
)

// GetRequestID returns the ID stored by the request ID middleware, or "" when the
// request never went through it.
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(string(KeyRequestID)).(string)

	return id
}

// SetRequestID stores the request ID on the echo context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// WithRequest tags ctx with the request ID and a child of base carrying it.
// Both the HTTP middleware and the notifier worker enter usecases through here.
func WithRequest(ctx context.Context, requestID string, base *slog.Logger) (context.Context, *slog.Logger) {
	reqLogger := base.With(slog.String(AttrRequestID, requestID))
	ctx = WithRequestID(ctx, requestID)

	return WithLogger(ctx, reqLogger), reqLogger
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)

	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLoggerOrDefault returns the request-scoped logger, falling back to the service's own.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}
