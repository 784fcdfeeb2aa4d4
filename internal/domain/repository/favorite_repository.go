package repository

import (
	"context"
	"errors"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrFavoriteNotFound is returned when removing a favorite that does not exist.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrFavoriteExists is returned when the property is already a favorite of the user.
	ErrFavoriteExists = errors.New("favorite already exists")
)

// FavoriteRepository persists saved properties.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *entity.Favorite) error
	Delete(ctx context.Context, userID, propertyID uuid.UUID) error
	Exists(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
	// List returns a page of favorites, newest first.
	List(ctx context.Context, userID uuid.UUID, page entity.PageRequest) ([]*entity.Favorite, int64, error)
	PropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
