package repository

import (
	"context"
	"errors"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrViewingNotFound is returned when a viewing does not exist.
var ErrViewingNotFound = errors.New("viewing not found")

// ViewingFilter selects viewings by requester or owner, optionally by status.
type ViewingFilter struct {
	UserID  *uuid.UUID
	OwnerID *uuid.UUID
	Status  *entity.ViewingStatus
}

// ViewingRepository persists viewing requests.
type ViewingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Viewing, error)
	// List returns a page of matching viewings ordered by date descending.
	List(ctx context.Context, filter ViewingFilter, page entity.PageRequest) ([]*entity.Viewing, int64, error)
	HasPending(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
	Create(ctx context.Context, viewing *entity.Viewing) error
	Update(ctx context.Context, viewing *entity.Viewing) error
	Delete(ctx context.Context, id uuid.UUID) error
}
