package middleware

import (
	"strings"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
}

// AuthMiddleware resolves the bearer token to the calling user and checks roles.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{authUC: params.AuthUC}
}

// Authenticate loads the active user behind the access token and stores it as the request actor.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrUnauthenticated.WithMessage("Not authorized, no token")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if token == authHeader || token == "" {
			return domainerrors.ErrUnauthenticated.WithMessage("Invalid token format, must be Bearer token")
		}

		user, err := m.authUC.Authenticate(c.Request().Context(), token)
		if err != nil {
			var appErr domainerrors.AppError
			if errors.As(err, &appErr) {
				return err
			}

			return domainerrors.ErrUnauthenticated.WithMessage("Not authorized, token failed")
		}

		deliverycontext.SetActor(c, user.Actor())

		return next(c)
	}
}

// RequireRoles rejects callers whose role is not listed. It must run after Authenticate.
func (m *AuthMiddleware) RequireRoles(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := deliverycontext.GetActor(c)
			if !ok {
				return domainerrors.ErrUnauthenticated
			}
			if !actor.HasAnyRole(roles...) {
				return domainerrors.ErrForbidden
			}

			return next(c)
		}
	}
}
