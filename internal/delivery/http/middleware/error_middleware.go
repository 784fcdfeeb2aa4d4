package middleware

import (
	"log/slog"
	"net/http"

	"rentalhub/config"
	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/domain/constants"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ErrorMiddlewareParams holds dependencies for ErrorMiddleware, injected by Fx.
type ErrorMiddlewareParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger      *slog.Logger
	showDetails bool
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(params ErrorMiddlewareParams) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger:      params.Logger,
		showDetails: params.Config.Env.Env != constants.EnvProduction,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		info := &domainerrors.ErrorInfo{Code: appErr.ErrorCode()}
		var validationErr *domainerrors.ValidationError
		if errors.As(err, &validationErr) {
			info.Fields = validationErr.Fields()
		}
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.String("path", c.Path()), slog.Any("error", err))
			m.attachDetails(info, appErr.Details(), err)
		} else if m.showDetails {
			info.Details = appErr.Details()
		}
		m.write(c, appErr.HTTPCode(), appErr.Message(), info)

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		}
		info := &domainerrors.ErrorInfo{Code: "HTTP_ERROR"}
		if m.showDetails && httpErr.Internal != nil {
			info.Details = httpErr.Internal.Error()
		}
		m.write(c, httpErr.Code, message, info)

		return
	}

	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
	info := &domainerrors.ErrorInfo{Code: domainerrors.ErrInternalError.ErrorCode()}
	m.attachDetails(info, err.Error(), err)
	m.write(c, http.StatusInternalServerError, domainerrors.ErrInternalError.Message(), info)
}

// attachDetails exposes internals outside production only.
func (m *ErrorMiddleware) attachDetails(info *domainerrors.ErrorInfo, details string, err error) {
	if !m.showDetails {
		return
	}
	info.Details = details
	info.Stack = errors.StackTrace(err)
}

func (m *ErrorMiddleware) write(c echo.Context, status int, message string, info *domainerrors.ErrorInfo) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = response.Error(c, status, message, info)
	}
	if err != nil {
		m.logger.Error("Failed to write error response", slog.Any("error", err))
	}
}
