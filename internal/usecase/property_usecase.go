package usecase

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// PropertyFields holds listing attributes supplied by an owner. Nil fields are left untouched.
type PropertyFields struct {
	Title         *string
	Description   *string
	Price         *float64
	Location      *string
	Coordinates   *orb.Point
	Images        []string
	Amenities     []string
	IsAvailable   *bool
	PropertyType  *entity.PropertyType
	Bedrooms      *int
	Bathrooms     *int
	SquareFeet    *float64
	AvailableFrom *time.Time
	SharingType   *entity.SharingType
	AvailableBeds *int
}

// Apply copies the supplied fields onto p.
func (f *PropertyFields) Apply(p *entity.Property) {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Location != nil {
		p.Location = *f.Location
	}
	if f.Coordinates != nil {
		p.SetCoordinates(f.Coordinates)
	}
	if f.Images != nil {
		p.Images = f.Images
	}
	if f.Amenities != nil {
		p.Amenities = entity.NormalizeAmenities(f.Amenities)
	}
	if f.IsAvailable != nil {
		p.IsAvailable = *f.IsAvailable
	}
	if f.PropertyType != nil {
		p.PropertyType = *f.PropertyType
	}
	if f.Bedrooms != nil {
		p.Bedrooms = *f.Bedrooms
	}
	if f.Bathrooms != nil {
		p.Bathrooms = *f.Bathrooms
	}
	if f.SquareFeet != nil {
		p.SquareFeet = f.SquareFeet
	}
	if f.AvailableFrom != nil {
		p.AvailableFrom = f.AvailableFrom
	}
	if f.SharingType != nil {
		p.SharingType = f.SharingType
	}
	if f.AvailableBeds != nil {
		p.AvailableBeds = f.AvailableBeds
	}
}

// ListPropertiesInput is a filtered, sorted, paginated property query.
type ListPropertiesInput struct {
	Filter repository.PropertyFilter
	Sort   repository.PropertySort
	Page   entity.PageRequest
}

// PropertyUsecase defines listing and moderation operations.
type PropertyUsecase interface {
	// ListPublic returns approved listings only, whatever status the filter asks for.
	ListPublic(ctx context.Context, input *ListPropertiesInput) (*entity.Page[*entity.Property], error)
	GetProperty(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	RecordView(ctx context.Context, id uuid.UUID) (int, error)
	ShareQRCode(ctx context.Context, id uuid.UUID) ([]byte, error)

	ListMine(ctx context.Context, actor entity.Actor, status *entity.PropertyStatus, page entity.PageRequest) (*entity.Page[*entity.Property], error)
	Create(ctx context.Context, actor entity.Actor, fields *PropertyFields) (*entity.Property, error)
	Update(ctx context.Context, actor entity.Actor, id uuid.UUID, fields *PropertyFields) (*entity.Property, error)
	Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	Resubmit(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Property, error)
	ToggleAvailability(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Property, error)

	ListByStatus(ctx context.Context, actor entity.Actor, status entity.PropertyStatus, page entity.PageRequest) (*entity.Page[*entity.Property], error)
	Approve(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Property, error)
	Reject(ctx context.Context, actor entity.Actor, id uuid.UUID, reason string) (*entity.Property, error)
}
