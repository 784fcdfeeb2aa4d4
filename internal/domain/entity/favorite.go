package entity

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a property as saved by a user. Unique per (user, property).
type Favorite struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	PropertyID uuid.UUID `json:"propertyId"`
	Property   *Property `json:"property,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
