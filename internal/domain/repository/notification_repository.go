package repository

import (
	"context"
	"errors"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned when a notification does not exist.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository persists in-app notifications.
type NotificationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
	// List returns a page of userID's notifications, newest first.
	List(ctx context.Context, userID uuid.UUID, page entity.PageRequest) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Create(ctx context.Context, notification *entity.Notification) error
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}
