package usecase

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateViewingInput requests a visit of a property.
type CreateViewingInput struct {
	PropertyID uuid.UUID
	Date       time.Time
	Note       *string
}

// UpdateViewingStatusInput moves a pending viewing to its next state.
type UpdateViewingStatusInput struct {
	Status       entity.ViewingStatus
	CancelReason *string
}

// ViewingUsecase defines viewing request scheduling.
type ViewingUsecase interface {
	// ListRequested returns the caller's own requests.
	ListRequested(ctx context.Context, actor entity.Actor, status *entity.ViewingStatus, page entity.PageRequest) (*entity.Page[*entity.Viewing], error)
	// ListOwned returns requests for the caller's properties.
	ListOwned(ctx context.Context, actor entity.Actor, status *entity.ViewingStatus, page entity.PageRequest) (*entity.Page[*entity.Viewing], error)
	Create(ctx context.Context, actor entity.Actor, input *CreateViewingInput) (*entity.Viewing, error)
	UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, input *UpdateViewingStatusInput) (*entity.Viewing, error)
	Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error
}
