package repository

import (
	"context"
	"errors"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrReviewNotFound is returned when a review does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ErrReviewExists is returned on a second review of the same property by the same user.
var ErrReviewExists = errors.New("review already exists")

// Sortable review columns.
const (
	ReviewSortCreatedAt    = "createdAt"
	ReviewSortRating       = "rating"
	ReviewSortHelpfulCount = "helpfulCount"
)

// ReviewSort orders a review list.
type ReviewSort struct {
	Field string
	Order entity.SortOrder
}

// ReviewRepository persists reviews and their helpful votes.
type ReviewRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*entity.Review, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID, sort ReviewSort, page entity.PageRequest) ([]*entity.Review, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page entity.PageRequest) ([]*entity.Review, int64, error)
	Create(ctx context.Context, review *entity.Review) error
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// RatingSummary aggregates the remaining reviews of a property.
	RatingSummary(ctx context.Context, propertyID uuid.UUID) (entity.RatingSummary, error)

	// SetHelpful adds or removes userID's vote and returns the resulting helpful count.
	SetHelpful(ctx context.Context, reviewID, userID uuid.UUID, helpful bool) (int, error)
}
