package handler

import (
	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// FavoriteHandlerParams holds dependencies for FavoriteHandler, injected by Fx.
type FavoriteHandlerParams struct {
	fx.In

	FavoriteUC usecase.FavoriteUsecase
}

// FavoriteHandler serves the caller's saved properties.
type FavoriteHandler struct {
	favoriteUC usecase.FavoriteUsecase
}

// NewFavoriteHandler is the constructor for FavoriteHandler.
func NewFavoriteHandler(params FavoriteHandlerParams) *FavoriteHandler {
	return &FavoriteHandler{favoriteUC: params.FavoriteUC}
}

// AddFavoriteRequest is the body of POST /favorites.
type AddFavoriteRequest struct {
	PropertyID uuid.UUID `json:"propertyId" validate:"required"`
}

func (h *FavoriteHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	page, err := h.favoriteUC.List(c.Request().Context(), actor, pageRequest(c, constants.DefaultPageLimit))
	if err != nil {
		return err
	}

	return response.Page(c, page, "")
}

func (h *FavoriteHandler) IDs(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	ids, err := h.favoriteUC.PropertyIDs(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return response.OK(c, map[string][]uuid.UUID{"favoriteIds": ids}, "")
}

func (h *FavoriteHandler) Check(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	propertyID, err := paramID(c, "propertyId", "property")
	if err != nil {
		return err
	}

	exists, err := h.favoriteUC.IsFavorite(c.Request().Context(), actor, propertyID)
	if err != nil {
		return err
	}

	return response.OK(c, map[string]bool{"isFavorite": exists}, "")
}

func (h *FavoriteHandler) Add(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req AddFavoriteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	favorite, err := h.favoriteUC.Add(c.Request().Context(), actor, req.PropertyID)
	if err != nil {
		return err
	}

	return response.Created(c, map[string]*entity.Favorite{"favorite": favorite}, "Property added to favorites")
}

func (h *FavoriteHandler) Remove(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	propertyID, err := paramID(c, "propertyId", "property")
	if err != nil {
		return err
	}

	if err := h.favoriteUC.Remove(c.Request().Context(), actor, propertyID); err != nil {
		return err
	}

	return response.OK(c, nil, "Property removed from favorites")
}

func (h *FavoriteHandler) Toggle(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	propertyID, err := paramID(c, "propertyId", "property")
	if err != nil {
		return err
	}

	favorited, err := h.favoriteUC.Toggle(c.Request().Context(), actor, propertyID)
	if err != nil {
		return err
	}

	msg := "Property removed from favorites"
	if favorited {
		msg = "Property added to favorites"
	}

	return response.OK(c, map[string]bool{"isFavorite": favorited}, msg)
}
