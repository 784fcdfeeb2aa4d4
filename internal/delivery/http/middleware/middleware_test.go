package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"rentalhub/config"
	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/validation"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthUC resolves "good-token" to user and fails every other token with err.
type fakeAuthUC struct {
	usecase.AuthUsecase

	user *entity.User
	err  error
}

func (f *fakeAuthUC) Authenticate(_ context.Context, token string) (*entity.User, error) {
	if token == "good-token" {
		return f.user, nil
	}

	return nil, f.err
}

func newErrorMiddleware(env string) *ErrorMiddleware {
	cfg := &config.Config{}
	cfg.Env.Env = env

	return NewErrorMiddleware(ErrorMiddlewareParams{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func newTestEcho(env string) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = newErrorMiddleware(env).HandleHTTPError

	return e
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Name: "Ada", Role: entity.RoleOwner, IsActive: true}

	tests := []struct {
		name        string
		header      string
		authErr     error
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "valid bearer token",
			header:     "Bearer good-token",
			wantStatus: http.StatusOK,
		},
		{
			name:        "missing header",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Not authorized, no token",
		},
		{
			name:        "not a bearer token",
			header:      "Basic abc",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid token format, must be Bearer token",
		},
		{
			name:        "deactivated account keeps its error",
			header:      "Bearer other",
			authErr:     domainerrors.ErrAccountDeactivated,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Your account has been deactivated",
		},
		{
			name:        "unknown failure",
			header:      "Bearer other",
			authErr:     errors.New("signature is invalid"),
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Not authorized, token failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(constants.EnvDevelop)
			auth := NewAuthMiddleware(AuthMiddlewareParams{AuthUC: &fakeAuthUC{user: user, err: tt.authErr}})

			var got entity.Actor
			e.GET("/me", func(c echo.Context) error {
				got, _ = deliverycontext.GetActor(c)

				return c.NoContent(http.StatusOK)
			}, auth.Authenticate)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, user.ID, got.ID)
				assert.Equal(t, entity.RoleOwner, got.Role)

				return
			}
			body := decode(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestAuthMiddleware_RequireRoles(t *testing.T) {
	auth := NewAuthMiddleware(AuthMiddlewareParams{AuthUC: &fakeAuthUC{}})

	tests := []struct {
		name       string
		actor      *entity.Actor
		wantStatus int
	}{
		{name: "no actor", wantStatus: http.StatusUnauthorized},
		{name: "wrong role", actor: &entity.Actor{ID: uuid.New(), Role: entity.RoleUser}, wantStatus: http.StatusForbidden},
		{name: "admin allowed", actor: &entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "owner allowed", actor: &entity.Actor{ID: uuid.New(), Role: entity.RoleOwner}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(constants.EnvDevelop)
			setActor := func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					if tt.actor != nil {
						deliverycontext.SetActor(c, *tt.actor)
					}

					return next(c)
				}
			}
			e.GET("/listings", func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}, setActor, auth.RequireRoles(entity.RoleOwner, entity.RoleAdmin))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestErrorMiddleware_HandleHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		err         error
		method      string
		wantStatus  int
		wantCode    string
		wantMessage string
		wantFields  int
		wantDetails bool
	}{
		{
			name:        "app error keeps its status",
			env:         constants.EnvDevelop,
			err:         domainerrors.NotFound("Property"),
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "Property not found",
		},
		{
			name:        "wrapped validation error lists fields",
			env:         constants.EnvProduction,
			err:         errors.Wrap(validation.Fail("title", "Title is required"), "create property"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantMessage: "Title is required",
			wantFields:  1,
		},
		{
			name:        "echo http error",
			env:         constants.EnvDevelop,
			err:         echo.NewHTTPError(http.StatusMethodNotAllowed),
			wantStatus:  http.StatusMethodNotAllowed,
			wantCode:    "HTTP_ERROR",
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "unknown error shows details outside production",
			env:         constants.EnvDevelop,
			err:         errors.New("pq: connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "Internal server error",
			wantDetails: true,
		},
		{
			name:        "unknown error hides details in production",
			env:         constants.EnvProduction,
			err:         errors.New("pq: connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "Internal server error",
		},
		{
			name:       "head request gets no body",
			env:        constants.EnvDevelop,
			err:        domainerrors.ErrForbidden,
			method:     http.MethodHead,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(method, "/", nil), rec)

			newErrorMiddleware(tt.env).HandleHTTPError(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if method == http.MethodHead {
				assert.Empty(t, rec.Body.String())

				return
			}
			body := decode(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Len(t, body.Error.Fields, tt.wantFields)
			if tt.wantDetails {
				assert.NotEmpty(t, body.Error.Details)
				assert.NotEmpty(t, body.Error.Stack)
			} else {
				assert.Empty(t, body.Error.Stack)
			}
		})
	}
}

func TestErrorMiddleware_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	newErrorMiddleware(constants.EnvDevelop).HandleHTTPError(domainerrors.ErrInternalError, c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
