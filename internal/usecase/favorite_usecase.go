package usecase

import (
	"context"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// FavoriteUsecase defines the saved-properties operations of the caller.
type FavoriteUsecase interface {
	// List skips favorites whose property no longer exists.
	List(ctx context.Context, actor entity.Actor, page entity.PageRequest) (*entity.Page[*entity.Favorite], error)
	PropertyIDs(ctx context.Context, actor entity.Actor) ([]uuid.UUID, error)
	IsFavorite(ctx context.Context, actor entity.Actor, propertyID uuid.UUID) (bool, error)
	Add(ctx context.Context, actor entity.Actor, propertyID uuid.UUID) (*entity.Favorite, error)
	Remove(ctx context.Context, actor entity.Actor, propertyID uuid.UUID) error
	// Toggle reports whether the property is a favorite afterwards.
	Toggle(ctx context.Context, actor entity.Actor, propertyID uuid.UUID) (bool, error)
}
