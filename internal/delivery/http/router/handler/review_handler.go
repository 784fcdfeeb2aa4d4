package handler

import (
	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ReviewHandlerParams holds dependencies for ReviewHandler, injected by Fx.
type ReviewHandlerParams struct {
	fx.In

	ReviewUC usecase.ReviewUsecase
}

// ReviewHandler serves property reviews.
type ReviewHandler struct {
	reviewUC usecase.ReviewUsecase
}

// NewReviewHandler is the constructor for ReviewHandler.
func NewReviewHandler(params ReviewHandlerParams) *ReviewHandler {
	return &ReviewHandler{reviewUC: params.ReviewUC}
}

// CreateReviewRequest is the body of POST /reviews.
type CreateReviewRequest struct {
	PropertyID uuid.UUID `json:"propertyId" validate:"required"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"reviewText"`
}

// UpdateReviewRequest is the body of PUT /reviews/:id.
type UpdateReviewRequest struct {
	Rating     *int    `json:"rating"`
	ReviewText *string `json:"reviewText"`
}

type reviewResponse struct {
	Review *entity.Review `json:"review"`
}

func (h *ReviewHandler) ListByProperty(c echo.Context) error {
	propertyID, err := paramID(c, "propertyId", "property")
	if err != nil {
		return err
	}
	sort := repository.ReviewSort{
		Field: c.QueryParam("sortBy"),
		Order: entity.ParseSortOrder(c.QueryParam("sortOrder")),
	}

	page, err := h.reviewUC.ListByProperty(c.Request().Context(), propertyID, sort, pageRequest(c, constants.DefaultPageLimit))
	if err != nil {
		return err
	}

	return response.Page(c, page, "")
}

func (h *ReviewHandler) ListByUser(c echo.Context) error {
	userID, err := paramID(c, "userId", "user")
	if err != nil {
		return err
	}

	page, err := h.reviewUC.ListByUser(c.Request().Context(), userID, pageRequest(c, constants.DefaultPageLimit))
	if err != nil {
		return err
	}

	return response.Page(c, page, "")
}

// Create reviews a property once per user and refreshes its rating.
func (h *ReviewHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req CreateReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.reviewUC.Create(c.Request().Context(), actor, &usecase.CreateReviewInput{
		PropertyID: req.PropertyID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		return err
	}

	return response.Created(c, reviewResponse{Review: review}, "Review created successfully")
}

func (h *ReviewHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "review")
	if err != nil {
		return err
	}
	var req UpdateReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.reviewUC.Update(c.Request().Context(), actor, id, &usecase.UpdateReviewInput{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		return err
	}

	return response.OK(c, reviewResponse{Review: review}, "Review updated successfully")
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "review")
	if err != nil {
		return err
	}

	if err := h.reviewUC.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return response.OK(c, nil, "Review deleted successfully")
}

// ToggleHelpful flips the caller's helpful vote.
func (h *ReviewHandler) ToggleHelpful(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "review")
	if err != nil {
		return err
	}

	output, err := h.reviewUC.ToggleHelpful(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return response.OK(c, output, "")
}
