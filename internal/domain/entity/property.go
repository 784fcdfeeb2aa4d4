package entity

import (
	"math"
	"strings"
	"time"

	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/validation"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
)

// PropertyStatus is the approval state gating a listing's public visibility.
type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
	PropertyStatusRejected PropertyStatus = "rejected"
)

// IsValid checks if the status is a known approval state.
func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusPending, PropertyStatusApproved, PropertyStatusRejected:
		return true
	default:
		return false
	}
}

// PropertyType classifies a listing.
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeCondo     PropertyType = "condo"
	PropertyTypeTownhouse PropertyType = "townhouse"
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeRoom      PropertyType = "room"
	PropertyTypeOther     PropertyType = "other"
)

// SharingType describes how a room listing is shared.
type SharingType string

const (
	SharingTypeEntire      SharingType = "entire"
	SharingTypePrivateRoom SharingType = "private_room"
	SharingTypeSharedRoom  SharingType = "shared_room"
)

// DefaultRejectionReason is recorded when an admin rejects without a reason.
const DefaultRejectionReason = "No reason provided"

// geohashPrecision of 9 characters is roughly a 5m cell.
const geohashPrecision = 9

// Property is a rental listing. Status transitions go through Approve, Reject,
// Resubmit and MarkEdited only, which keep IsApproved == (Status == approved).
type Property struct {
	ID              uuid.UUID      `json:"id"`
	OwnerID         uuid.UUID      `json:"ownerId"`
	Owner           *UserSummary   `json:"owner,omitempty"`
	Title           string         `json:"title" validate:"required,min=3,max=200"`
	Description     string         `json:"description" validate:"required,min=10,max=5000"`
	Price           float64        `json:"price" validate:"gte=0"`
	Location        string         `json:"location" validate:"required,max=500"`
	Coordinates     *orb.Point     `json:"coordinates,omitempty"`
	Geohash         string         `json:"geohash,omitempty"`
	Images          []string       `json:"images" validate:"max=50,dive,required"`
	Amenities       []string       `json:"amenities" validate:"max=50,dive,required,max=100"`
	IsAvailable     bool           `json:"isAvailable"`
	PropertyType    PropertyType   `json:"propertyType" validate:"required,oneof=apartment house condo townhouse studio villa room other"`
	Bedrooms        int            `json:"bedrooms" validate:"gte=0"`
	Bathrooms       int            `json:"bathrooms" validate:"gte=0"`
	SquareFeet      *float64       `json:"squareFeet,omitempty" validate:"omitempty,gte=0"`
	AvailableFrom   *time.Time     `json:"availableFrom,omitempty"`
	SharingType     *SharingType   `json:"sharingType,omitempty" validate:"omitempty,oneof=entire private_room shared_room"`
	AvailableBeds   *int           `json:"availableBeds,omitempty" validate:"omitempty,gte=0"`
	Status          PropertyStatus `json:"status" validate:"required,oneof=pending approved rejected"`
	IsApproved      bool           `json:"isApproved"`
	IsResubmitted   bool           `json:"isResubmitted"`
	RejectionReason *string        `json:"rejectionReason"`
	Views           int            `json:"views" validate:"gte=0"`
	AverageRating   float64        `json:"averageRating" validate:"gte=0,lte=5"`
	ReviewCount     int            `json:"reviewCount" validate:"gte=0"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// NewProperty returns a pending listing for ownerID with the schema defaults.
func NewProperty(ownerID uuid.UUID) *Property {
	return &Property{
		OwnerID:      ownerID,
		Images:       []string{},
		Amenities:    []string{},
		IsAvailable:  true,
		PropertyType: PropertyTypeApartment,
		Bedrooms:     1,
		Bathrooms:    1,
		Status:       PropertyStatusPending,
	}
}

// Validate checks field constraints, including the coordinate range.
func (p *Property) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	if p.Coordinates != nil {
		lng, lat := p.Coordinates.Lon(), p.Coordinates.Lat()
		if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
			return validation.Fail("coordinates", "coordinates must be [longitude, latitude] within range")
		}
	}

	return nil
}

func (p *Property) setStatus(status PropertyStatus) {
	p.Status = status
	p.IsApproved = status == PropertyStatusApproved
}

// Approve moves a pending listing to approved.
func (p *Property) Approve() error {
	if p.Status != PropertyStatusPending {
		return domainerrors.BadRequest("Only pending properties can be approved")
	}

	p.setStatus(PropertyStatusApproved)
	p.IsResubmitted = false
	p.RejectionReason = nil

	return nil
}

// Reject moves a pending listing to rejected. An empty reason records DefaultRejectionReason.
func (p *Property) Reject(reason string) error {
	if p.Status != PropertyStatusPending {
		return domainerrors.BadRequest("Only pending properties can be rejected")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}

	p.setStatus(PropertyStatusRejected)
	p.RejectionReason = &reason

	return nil
}

// Resubmit returns a rejected listing to the review queue without the old rejection reason.
func (p *Property) Resubmit() error {
	if p.Status != PropertyStatusRejected {
		return domainerrors.BadRequest("Only rejected properties can be resubmitted")
	}

	p.setStatus(PropertyStatusPending)
	p.IsResubmitted = true
	p.RejectionReason = nil

	return nil
}

// MarkEdited applies the approval consequence of an edit by actor:
// any non-admin edit sends the listing back to pending.
func (p *Property) MarkEdited(actor Actor) {
	if actor.IsAdmin() {
		return
	}

	p.setStatus(PropertyStatusPending)
}

// ToggleAvailability flips IsAvailable and returns the new value.
func (p *Property) ToggleAvailability() bool {
	p.IsAvailable = !p.IsAvailable

	return p.IsAvailable
}

// SetCoordinates stores the point and refreshes the geohash index value.
// A nil point clears both.
func (p *Property) SetCoordinates(point *orb.Point) {
	p.Coordinates = point
	if point == nil {
		p.Geohash = ""

		return
	}

	p.Geohash = geohash.EncodeWithPrecision(point.Lat(), point.Lon(), geohashPrecision)
}

// ApplyRating stores the aggregate computed from the property's reviews.
func (p *Property) ApplyRating(summary RatingSummary) {
	p.AverageRating = summary.Average
	p.ReviewCount = summary.Count
}

// RatingSummary is the derived review aggregate of a property.
type RatingSummary struct {
	Average float64
	Count   int
}

// ComputeRating returns the mean rounded to one decimal place, or zeros when there are no reviews.
func ComputeRating(sum float64, count int) RatingSummary {
	if count <= 0 {
		return RatingSummary{}
	}

	return RatingSummary{
		Average: math.Round(sum/float64(count)*10) / 10,
		Count:   count,
	}
}

// NormalizeAmenities trims, drops empties and de-duplicates while keeping order.
func NormalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}

	return out
}
