package handler

import (
	"context"
	"time"

	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ViewingHandlerParams holds dependencies for ViewingHandler, injected by Fx.
type ViewingHandlerParams struct {
	fx.In

	ViewingUC usecase.ViewingUsecase
}

// ViewingHandler serves viewing requests.
type ViewingHandler struct {
	viewingUC usecase.ViewingUsecase
}

// NewViewingHandler is the constructor for ViewingHandler.
func NewViewingHandler(params ViewingHandlerParams) *ViewingHandler {
	return &ViewingHandler{viewingUC: params.ViewingUC}
}

// CreateViewingRequest is the body of POST /viewings.
type CreateViewingRequest struct {
	PropertyID uuid.UUID `json:"propertyId" validate:"required"`
	Date       time.Time `json:"date" validate:"required"`
	Note       *string   `json:"note" validate:"omitempty,max=500"`
}

// UpdateViewingStatusRequest is the body of PUT /viewings/:id/status.
type UpdateViewingStatusRequest struct {
	Status       entity.ViewingStatus `json:"status" validate:"required,oneof=confirmed cancelled completed rejected"`
	CancelReason *string              `json:"cancelReason" validate:"omitempty,max=500"`
}

type viewingResponse struct {
	Viewing *entity.Viewing `json:"viewing"`
}

// ListRequested returns the caller's own requests.
func (h *ViewingHandler) ListRequested(c echo.Context) error {
	return h.list(c, h.viewingUC.ListRequested)
}

// ListOwned returns requests made for the caller's properties.
func (h *ViewingHandler) ListOwned(c echo.Context) error {
	return h.list(c, h.viewingUC.ListOwned)
}

type viewingLister func(ctx context.Context, actor entity.Actor, status *entity.ViewingStatus, page entity.PageRequest) (*entity.Page[*entity.Viewing], error)

func (h *ViewingHandler) list(
	c echo.Context,
	lister viewingLister,
) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var status *entity.ViewingStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := entity.ViewingStatus(raw)
		if !s.IsValid() {
			return domainerrors.BadRequest("Invalid status")
		}
		status = &s
	}

	page, err := lister(c.Request().Context(), actor, status, pageRequest(c, constants.DefaultPageLimit))
	if err != nil {
		return err
	}

	return response.Page(c, page, "")
}

// Create requests a viewing and notifies the owner.
func (h *ViewingHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req CreateViewingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	viewing, err := h.viewingUC.Create(c.Request().Context(), actor, &usecase.CreateViewingInput{
		PropertyID: req.PropertyID,
		Date:       req.Date,
		Note:       req.Note,
	})
	if err != nil {
		return err
	}

	return response.Created(c, viewingResponse{Viewing: viewing}, "Viewing request created successfully")
}

func (h *ViewingHandler) UpdateStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "viewing")
	if err != nil {
		return err
	}
	var req UpdateViewingStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	viewing, err := h.viewingUC.UpdateStatus(c.Request().Context(), actor, id, &usecase.UpdateViewingStatusInput{
		Status:       req.Status,
		CancelReason: req.CancelReason,
	})
	if err != nil {
		return err
	}

	return response.OK(c, viewingResponse{Viewing: viewing}, "Viewing status updated successfully")
}

func (h *ViewingHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "viewing")
	if err != nil {
		return err
	}

	if err := h.viewingUC.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return response.OK(c, nil, "Viewing deleted successfully")
}
