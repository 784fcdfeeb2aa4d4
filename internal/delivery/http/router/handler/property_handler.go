package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"go.uber.org/fx"
)

const defaultNearRadiusKm = 10

// PropertyHandlerParams holds dependencies for PropertyHandler, injected by Fx.
type PropertyHandlerParams struct {
	fx.In

	PropertyUC usecase.PropertyUsecase
}

// PropertyHandler serves listings and their moderation.
type PropertyHandler struct {
	propertyUC usecase.PropertyUsecase
}

// NewPropertyHandler is the constructor for PropertyHandler.
func NewPropertyHandler(params PropertyHandlerParams) *PropertyHandler {
	return &PropertyHandler{propertyUC: params.PropertyUC}
}

// LatLng is a point as sent by clients.
type LatLng struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// PropertyRequest is the body of property create and update. Omitted fields are left untouched on update.
type PropertyRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Price         *float64             `json:"price"`
	Location      *string              `json:"location"`
	Coordinates   *LatLng              `json:"coordinates"`
	Images        []string             `json:"images"`
	Amenities     []string             `json:"amenities"`
	IsAvailable   *bool                `json:"isAvailable"`
	PropertyType  *entity.PropertyType `json:"propertyType"`
	Bedrooms      *int                 `json:"bedrooms"`
	Bathrooms     *int                 `json:"bathrooms"`
	SquareFeet    *float64             `json:"squareFeet"`
	AvailableFrom *time.Time           `json:"availableFrom"`
	SharingType   *entity.SharingType  `json:"sharingType"`
	AvailableBeds *int                 `json:"availableBeds"`
}

func (r *PropertyRequest) fields() *usecase.PropertyFields {
	fields := &usecase.PropertyFields{
		Title:         r.Title,
		Description:   r.Description,
		Price:         r.Price,
		Location:      r.Location,
		Images:        r.Images,
		Amenities:     r.Amenities,
		IsAvailable:   r.IsAvailable,
		PropertyType:  r.PropertyType,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		SquareFeet:    r.SquareFeet,
		AvailableFrom: r.AvailableFrom,
		SharingType:   r.SharingType,
		AvailableBeds: r.AvailableBeds,
	}
	if r.Coordinates != nil {
		fields.Coordinates = &orb.Point{r.Coordinates.Lng, r.Coordinates.Lat}
	}

	return fields
}

// RejectRequest is the body of PUT /properties/:id/reject.
type RejectRequest struct {
	Reason string `json:"reason"`
}

type propertyResponse struct {
	Property *entity.Property `json:"property"`
}

// List returns approved listings matching the query.
func (h *PropertyHandler) List(c echo.Context) error {
	filter, err := propertyFilter(c)
	if err != nil {
		return err
	}

	page, err := h.propertyUC.ListPublic(c.Request().Context(), &usecase.ListPropertiesInput{
		Filter: filter,
		Sort: repository.PropertySort{
			Field: c.QueryParam("sortBy"),
			Order: entity.ParseSortOrder(c.QueryParam("sortOrder")),
		},
		Page: pageRequest(c, constants.DefaultPageLimit),
	})
	if err != nil {
		return err
	}

	return response.Page(c, page, "")
}

func propertyFilter(c echo.Context) (repository.PropertyFilter, error) {
	filter := repository.PropertyFilter{Location: strings.TrimSpace(c.QueryParam("location"))}
	if raw := c.QueryParam("propertyType"); raw != "" {
		propertyType := entity.PropertyType(raw)
		filter.PropertyType = &propertyType
	}

	var err error
	if filter.MinPrice, err = queryFloat(c, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryFloat(c, "maxPrice"); err != nil {
		return filter, err
	}
	if filter.MinBedrooms, err = queryInt(c, "bedrooms"); err != nil {
		return filter, err
	}
	if filter.MinBathrooms, err = queryInt(c, "bathrooms"); err != nil {
		return filter, err
	}
	if raw := c.QueryParam("amenities"); raw != "" {
		filter.Amenities = strings.Split(raw, ",")
	}

	lat, err := queryFloat(c, "lat")
	if err != nil {
		return filter, err
	}
	lng, err := queryFloat(c, "lng")
	if err != nil {
		return filter, err
	}
	radius, err := queryFloat(c, "radiusKm")
	if err != nil {
		return filter, err
	}
	if (lat == nil) != (lng == nil) {
		return filter, domainerrors.BadRequest("lat and lng must be given together")
	}
	if lat != nil {
		near := &repository.NearFilter{Center: orb.Point{*lng, *lat}, RadiusKm: defaultNearRadiusKm}
		if radius != nil {
			near.RadiusKm = *radius
		}
		filter.Near = near
	}

	return filter, nil
}

func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id", "property")
	if err != nil {
		return err
	}

	property, err := h.propertyUC.GetProperty(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, propertyResponse{Property: property}, "")
}

// RecordView increments the view counter of a listing.
func (h *PropertyHandler) RecordView(c echo.Context) error {
	id, err := paramID(c, "id", "property")
	if err != nil {
		return err
	}

	views, err := h.propertyUC.RecordView(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, map[string]int{"views": views}, "")
}

// QRCode returns a PNG that links to the listing.
func (h *PropertyHandler) QRCode(c echo.Context) error {
	id, err := paramID(c, "id", "property")
	if err != nil {
		return err
	}

	png, err := h.propertyUC.ShareQRCode(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// ListMine returns the caller's own listings, optionally filtered by ?status.
func (h *PropertyHandler) ListMine(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var status *entity.PropertyStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := entity.PropertyStatus(raw)
		if !s.IsValid() {
			return domainerrors.BadRequest("Invalid status")
		}
		status = &s
	}

	page, err := h.propertyUC.ListMine(c.Request().Context(), actor, status, pageRequest(c, constants.DefaultPageLimit))
	if err != nil {
		return err
	}

	return response.Page(c, page, "")
}

func (h *PropertyHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req PropertyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	property, err := h.propertyUC.Create(c.Request().Context(), actor, req.fields())
	if err != nil {
		return err
	}

	return response.Created(c, propertyResponse{Property: property}, "Property created successfully. Waiting for admin approval.")
}

// Update edits a listing. An owner edit sends the listing back to review.
func (h *PropertyHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "property")
	if err != nil {
		return err
	}
	var req PropertyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	property, err := h.propertyUC.Update(c.Request().Context(), actor, id, req.fields())
	if err != nil {
		return err
	}

	return response.OK(c, propertyResponse{Property: property}, "Property updated successfully")
}

func (h *PropertyHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "property")
	if err != nil {
		return err
	}

	if err := h.propertyUC.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return response.OK(c, nil, "Property deleted successfully")
}

func (h *PropertyHandler) Resubmit(c echo.Context) error {
	return h.transition(c, h.propertyUC.Resubmit, "Property resubmitted for approval")
}

func (h *PropertyHandler) ToggleAvailability(c echo.Context) error {
	return h.transition(c, h.propertyUC.ToggleAvailability, "Property availability updated")
}

func (h *PropertyHandler) Approve(c echo.Context) error {
	return h.transition(c, h.propertyUC.Approve, "Property approved successfully")
}

func (h *PropertyHandler) Reject(c echo.Context) error {
	var req RejectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	return h.transition(c, func(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Property, error) {
		return h.propertyUC.Reject(ctx, actor, id, req.Reason)
	}, "Property rejected")
}

func (h *PropertyHandler) ListPending(c echo.Context) error {
	return h.listByStatus(c, entity.PropertyStatusPending)
}

func (h *PropertyHandler) ListRejected(c echo.Context) error {
	return h.listByStatus(c, entity.PropertyStatusRejected)
}

func (h *PropertyHandler) listByStatus(c echo.Context, status entity.PropertyStatus) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	page, err := h.propertyUC.ListByStatus(c.Request().Context(), actor, status, pageRequest(c, constants.DefaultPageLimit))
	if err != nil {
		return err
	}

	return response.Page(c, page, "")
}

type propertyTransition func(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Property, error)

func (h *PropertyHandler) transition(c echo.Context, apply propertyTransition, msg string) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "property")
	if err != nil {
		return err
	}

	property, err := apply(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return response.OK(c, propertyResponse{Property: property}, msg)
}
