package http

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
	httpmiddleware "rentalhub/internal/delivery/http/middleware"
	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/delivery/http/router"
	"rentalhub/internal/delivery/http/router/handler"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthUC knows a single token per role.
type fakeAuthUC struct {
	usecase.AuthUsecase
}

func (fakeAuthUC) Authenticate(_ context.Context, token string) (*entity.User, error) {
	role := entity.Role(token)
	if !role.IsValid() {
		return nil, domainerrors.ErrUnauthenticated.WithMessage("Not authorized, token failed")
	}

	return &entity.User{ID: uuid.New(), Name: "Test " + token, Role: role, IsActive: true}, nil
}

type fakeUserUC struct {
	usecase.UserUsecase
}

func (fakeUserUC) Stats(context.Context, entity.Actor) (*entity.UserStats, error) {
	return &entity.UserStats{}, nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.Env.Env = constants.EnvDevelop
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	errorMiddleware := httpmiddleware.NewErrorMiddleware(httpmiddleware.ErrorMiddlewareParams{Config: cfg, Logger: logger})
	e := NewEcho(cfg, logger, errorMiddleware)

	router.NewRouter(router.RouterParams{
		AuthHandler:         handler.NewAuthHandler(handler.AuthHandlerParams{}),
		UserHandler:         handler.NewUserHandler(handler.UserHandlerParams{UserUC: fakeUserUC{}}),
		PropertyHandler:     handler.NewPropertyHandler(handler.PropertyHandlerParams{}),
		ReviewHandler:       handler.NewReviewHandler(handler.ReviewHandlerParams{}),
		FavoriteHandler:     handler.NewFavoriteHandler(handler.FavoriteHandlerParams{}),
		ViewingHandler:      handler.NewViewingHandler(handler.ViewingHandlerParams{}),
		ChatHandler:         handler.NewChatHandler(handler.ChatHandlerParams{}),
		NotificationHandler: handler.NewNotificationHandler(handler.NotificationHandlerParams{}),
		UploadHandler:       handler.NewUploadHandler(handler.UploadHandlerParams{}),
		AuthMiddleware:      httpmiddleware.NewAuthMiddleware(httpmiddleware.AuthMiddlewareParams{AuthUC: fakeAuthUC{}}),
	}).RegisterRoutes(e)

	return e
}

func TestServer_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		token      string
		wantStatus int
		wantCode   string
	}{
		{name: "health is public", method: http.MethodGet, target: "/api/health", wantStatus: http.StatusOK},
		{name: "favorites need a token", method: http.MethodGet, target: "/api/favorites", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "bad token", method: http.MethodGet, target: "/api/favorites", token: "nobody", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "moderation is admin only", method: http.MethodGet, target: "/api/properties/admin/pending", token: "owner", wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "listing needs owner or admin", method: http.MethodPost, target: "/api/properties", token: "user", wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "admin reads user stats", method: http.MethodGet, target: "/api/users/stats", token: "admin", wantStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, target: "/api/nowhere", wantStatus: http.StatusNotFound, wantCode: "HTTP_ERROR"},
	}

	e := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
			if tt.wantCode == "" {
				return
			}
			var body response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/properties", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
