package usecase

import (
	"context"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"

	"github.com/google/uuid"
)

// CreateReviewInput is a new review of a property.
type CreateReviewInput struct {
	PropertyID uuid.UUID
	Rating     int
	ReviewText string
}

// UpdateReviewInput edits a review. Nil fields are left untouched.
type UpdateReviewInput struct {
	Rating     *int
	ReviewText *string
}

// HelpfulOutput is the result of a helpful-vote toggle.
type HelpfulOutput struct {
	HelpfulCount int  `json:"helpfulCount"`
	IsHelpful    bool `json:"isHelpful"`
}

// ReviewUsecase defines review operations. Every write keeps the property's rating aggregate current.
type ReviewUsecase interface {
	ListByProperty(ctx context.Context, propertyID uuid.UUID, sort repository.ReviewSort, page entity.PageRequest) (*entity.Page[*entity.Review], error)
	ListByUser(ctx context.Context, userID uuid.UUID, page entity.PageRequest) (*entity.Page[*entity.Review], error)
	Create(ctx context.Context, actor entity.Actor, input *CreateReviewInput) (*entity.Review, error)
	Update(ctx context.Context, actor entity.Actor, id uuid.UUID, input *UpdateReviewInput) (*entity.Review, error)
	Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	ToggleHelpful(ctx context.Context, actor entity.Actor, id uuid.UUID) (*HelpfulOutput, error)
}
