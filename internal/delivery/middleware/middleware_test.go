package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentalhub/config"
	deliverycontext "rentalhub/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware_Process(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{name: "reuses client id", incoming: "req-123", reuse: true},
		{name: "generates when missing"},
		{name: "generates when too long", incoming: strings.Repeat("x", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, nil))

			e := echo.New()
			e.Use(NewRequestIDMiddleware(logger).Process)

			var ctxID, echoID string
			e.GET("/", func(c echo.Context) error {
				ctx := c.Request().Context()
				ctxID = deliverycontext.GetRequestIDFromContext(ctx)
				echoID = deliverycontext.GetRequestID(c)
				deliverycontext.GetLoggerOrDefault(ctx, nil).Info("inside handler")

				return c.NoContent(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			headerID := rec.Header().Get(deliverycontext.HeaderXRequestID)
			require.NotEmpty(t, headerID)
			assert.Equal(t, headerID, ctxID)
			assert.Equal(t, headerID, echoID)
			if tt.reuse {
				assert.Equal(t, tt.incoming, headerID)
			} else {
				assert.NotEqual(t, tt.incoming, headerID)
				assert.LessOrEqual(t, len(headerID), maxRequestIDLength)
			}
			assert.Contains(t, logs.String(), `"request_id":"`+headerID+`"`)
		})
	}
}

func TestLoggerMiddleware_Handle(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		status  int
		wantLog string
	}{
		{name: "quiet on success", status: http.StatusOK},
		{name: "logs success in debug", debug: true, status: http.StatusOK, wantLog: `"level":"INFO"`},
		{name: "logs server errors", status: http.StatusServiceUnavailable, wantLog: `"level":"ERROR"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, nil))
			cfg := &config.Config{}
			cfg.Env.Debug = tt.debug

			e := echo.New()
			e.Use(NewLoggerMiddleware(logger, cfg).Handle)
			e.GET("/push", func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/push", nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.wantLog == "" {
				assert.Empty(t, logs.String())

				return
			}
			assert.Contains(t, logs.String(), tt.wantLog)
			assert.Contains(t, logs.String(), `"uri":"/push"`)
		})
	}
}
