package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Review is a rating left by a user on a property. One review per (user, property).
type Review struct {
	ID           uuid.UUID   `json:"id"`
	PropertyID   uuid.UUID   `json:"propertyId"`
	UserID       uuid.UUID   `json:"userId"`
	UserName     string      `json:"userName"`     // Snapshot taken when the review was written.
	UserPhotoURL *string     `json:"userPhotoUrl"` // Snapshot taken when the review was written.
	Rating       int         `json:"rating" validate:"required,min=1,max=5"`
	ReviewText   string      `json:"reviewText" validate:"required,min=10,max=1000"`
	HelpfulBy    []uuid.UUID `json:"helpfulBy"`
	HelpfulCount int         `json:"helpfulCount"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// IsHelpfulBy reports whether userID has marked the review helpful.
func (r *Review) IsHelpfulBy(userID uuid.UUID) bool {
	return slices.Contains(r.HelpfulBy, userID)
}

// ToggleHelpful adds or removes userID from the helpful set and reports whether it is now present.
// HelpfulCount always equals the size of the set afterwards.
func (r *Review) ToggleHelpful(userID uuid.UUID) bool {
	idx := slices.Index(r.HelpfulBy, userID)
	helpful := idx < 0
	if helpful {
		r.HelpfulBy = append(r.HelpfulBy, userID)
	} else {
		r.HelpfulBy = slices.Delete(r.HelpfulBy, idx, idx+1)
	}
	r.HelpfulCount = len(r.HelpfulBy)

	return helpful
}
