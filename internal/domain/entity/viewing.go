package entity

import (
	"time"

	domainerrors "rentalhub/internal/domain/errors"

	"github.com/google/uuid"
)

// ViewingStatus is the lifecycle state of a viewing request.
type ViewingStatus string

const (
	ViewingStatusPending   ViewingStatus = "pending"
	ViewingStatusConfirmed ViewingStatus = "confirmed"
	ViewingStatusCancelled ViewingStatus = "cancelled"
	ViewingStatusCompleted ViewingStatus = "completed"
	ViewingStatusRejected  ViewingStatus = "rejected"
)

// IsValid checks if the status is a known viewing state.
func (s ViewingStatus) IsValid() bool {
	switch s {
	case ViewingStatusPending, ViewingStatusConfirmed, ViewingStatusCancelled,
		ViewingStatusCompleted, ViewingStatusRejected:
		return true
	default:
		return false
	}
}

// Viewing is a request by a user to visit a property.
type Viewing struct {
	ID           uuid.UUID     `json:"id"`
	PropertyID   uuid.UUID     `json:"propertyId"`
	Property     *Property     `json:"property,omitempty"`
	UserID       uuid.UUID     `json:"userId"` // Requester.
	User         *UserSummary  `json:"user,omitempty"`
	OwnerID      uuid.UUID     `json:"ownerId"`
	Owner        *UserSummary  `json:"owner,omitempty"`
	Date         time.Time     `json:"date" validate:"required"`
	Status       ViewingStatus `json:"status" validate:"required,oneof=pending confirmed cancelled completed rejected"`
	Note         *string       `json:"note,omitempty" validate:"omitempty,max=500"`
	CancelReason *string       `json:"cancelReason,omitempty" validate:"omitempty,max=500"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// NewViewing returns a pending request by requester for property.
func NewViewing(property *Property, requesterID uuid.UUID, date time.Time, note *string) *Viewing {
	return &Viewing{
		PropertyID: property.ID,
		UserID:     requesterID,
		OwnerID:    property.OwnerID,
		Date:       date,
		Status:     ViewingStatusPending,
		Note:       note,
	}
}

// Transition moves the viewing to status on behalf of actor. Authorization is
// checked before the current state, and only a pending viewing can move: a
// confirmed visit is final. cancelReason is only recorded for cancellations.
func (v *Viewing) Transition(actor Actor, status ViewingStatus, cancelReason *string) error {
	switch status {
	case ViewingStatusCancelled:
		if !actor.CanModify(v.UserID) {
			return domainerrors.Forbidden("Not authorized to cancel this viewing")
		}
	case ViewingStatusConfirmed, ViewingStatusRejected, ViewingStatusCompleted:
		if !actor.CanModify(v.OwnerID) {
			return domainerrors.Forbidden("Not authorized to update this viewing")
		}
	case ViewingStatusPending:
		return domainerrors.BadRequest("Cannot move a viewing back to pending")
	default:
		return domainerrors.BadRequest("Invalid viewing status")
	}

	if v.Status != ViewingStatusPending {
		return domainerrors.BadRequest("Only pending viewings can be " + string(status))
	}

	v.Status = status
	if status == ViewingStatusCancelled {
		v.CancelReason = cancelReason
	}

	return nil
}
