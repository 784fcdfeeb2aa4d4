package repository

import (
	"context"
	"errors"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ErrPropertyNotFound is returned when a property does not exist.
var ErrPropertyNotFound = errors.New("property not found")

// NearFilter restricts results to a radius around a point.
type NearFilter struct {
	Center   orb.Point
	RadiusKm float64
}

// PropertyFilter describes a property list query. Zero values mean "no constraint".
type PropertyFilter struct {
	Status       *entity.PropertyStatus
	OwnerID      *uuid.UUID
	Location     string // case-insensitive substring
	PropertyType *entity.PropertyType
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	MinBathrooms *int
	Amenities    []string // all must be present
	Near         *NearFilter
}

// Sortable property columns.
const (
	PropertySortCreatedAt     = "createdAt"
	PropertySortPrice         = "price"
	PropertySortAverageRating = "averageRating"
	PropertySortViews         = "views"
	PropertySortBedrooms      = "bedrooms"
)

// PropertySort orders a property list.
type PropertySort struct {
	Field string
	Order entity.SortOrder
}

// PropertyRepository persists listings.
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	// FindByIDs returns the existing properties among ids. Missing ids are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Property, error)
	List(ctx context.Context, filter PropertyFilter, sort PropertySort, page entity.PageRequest) ([]*entity.Property, int64, error)
	Create(ctx context.Context, property *entity.Property) error
	Update(ctx context.Context, property *entity.Property) error
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementViews atomically bumps the view counter and returns the new value.
	IncrementViews(ctx context.Context, id uuid.UUID) (int, error)

	// UpdateRating writes the derived rating fields only.
	UpdateRating(ctx context.Context, id uuid.UUID, summary entity.RatingSummary) error
}
