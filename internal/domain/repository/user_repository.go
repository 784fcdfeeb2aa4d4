// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserFilter narrows the admin user list. Search matches name or email as a case-insensitive substring.
type UserFilter struct {
	Role   *entity.Role
	Search string
}

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their normalized email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByGoogleID retrieves the user linked to a Google account.
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)

	// FindByPhoneNumber retrieves the user registered with a phone number.
	FindByPhoneNumber(ctx context.Context, phone string) (*entity.User, error)

	// FindSummaries returns the public projection of each existing id.
	FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.UserSummary, error)

	// FindActiveAdmins returns every active admin, oldest first.
	FindActiveAdmins(ctx context.Context) ([]*entity.User, error)

	// List returns a page of users, newest first, and the total matching count.
	List(ctx context.Context, filter UserFilter, page entity.PageRequest) ([]*entity.User, int64, error)

	// Stats counts users by role and activity.
	Stats(ctx context.Context) (*entity.UserStats, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user row. Related records are not cascaded.
	Delete(ctx context.Context, id uuid.UUID) error
}
