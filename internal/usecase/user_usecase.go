package usecase

import (
	"context"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ListUsersInput filters the admin user list.
type ListUsersInput struct {
	Role   *entity.Role
	Search string
	Page   entity.PageRequest
}

// UpdateUserInput is an admin edit of an account. Nil fields are left untouched.
type UpdateUserInput struct {
	Name        *string
	Role        *entity.Role
	IsActive    *bool
	PhoneNumber *string
	Bio         *string
}

// UserUsecase defines account management operations.
type UserUsecase interface {
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	ListUsers(ctx context.Context, actor entity.Actor, input *ListUsersInput) (*entity.Page[*entity.User], error)
	Stats(ctx context.Context, actor entity.Actor) (*entity.UserStats, error)
	UpdateUser(ctx context.Context, actor entity.Actor, id uuid.UUID, input *UpdateUserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	ToggleActive(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.User, error)
}
