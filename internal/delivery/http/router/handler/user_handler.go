package handler

import (
	"strings"

	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
}

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	userUC usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{userUC: params.UserUC}
}

// UpdateUserRequest is the body of the admin PUT /users/:id.
type UpdateUserRequest struct {
	Name        *string      `json:"name"`
	Role        *entity.Role `json:"role"`
	IsActive    *bool        `json:"isActive"`
	PhoneNumber *string      `json:"phoneNumber"`
	Bio         *string      `json:"bio"`
}

// Get returns a user's public profile.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id", "user")
	if err != nil {
		return err
	}

	user, err := h.userUC.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, userResponse{User: user}, "")
}

// List filters accounts by ?role and a name or email ?search.
func (h *UserHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	input := &usecase.ListUsersInput{
		Search: strings.TrimSpace(c.QueryParam("search")),
		Page:   pageRequest(c, constants.DefaultLongPageLimit),
	}
	if raw := c.QueryParam("role"); raw != "" {
		role := entity.Role(raw)
		if !role.IsValid() {
			return domainerrors.BadRequest("Invalid role")
		}
		input.Role = &role
	}

	page, err := h.userUC.ListUsers(c.Request().Context(), actor, input)
	if err != nil {
		return err
	}

	return response.Page(c, page, "")
}

func (h *UserHandler) Stats(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	stats, err := h.userUC.Stats(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return response.OK(c, stats, "")
}

func (h *UserHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "user")
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.userUC.UpdateUser(c.Request().Context(), actor, id, &usecase.UpdateUserInput{
		Name:        req.Name,
		Role:        req.Role,
		IsActive:    req.IsActive,
		PhoneNumber: req.PhoneNumber,
		Bio:         req.Bio,
	})
	if err != nil {
		return err
	}

	return response.OK(c, userResponse{User: user}, "User updated successfully")
}

func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "user")
	if err != nil {
		return err
	}

	if err := h.userUC.DeleteUser(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return response.OK(c, nil, "User deleted successfully")
}

func (h *UserHandler) ToggleActive(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "user")
	if err != nil {
		return err
	}

	user, err := h.userUC.ToggleActive(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	msg := "User deactivated successfully"
	if user.IsActive {
		msg = "User activated successfully"
	}

	return response.OK(c, userResponse{User: user}, msg)
}
