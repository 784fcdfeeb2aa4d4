package usecase

import (
	"context"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/service"

	"github.com/google/uuid"
)

// CreateNotificationInput is an admin-authored notification for one user.
type CreateNotificationInput struct {
	UserID uuid.UUID
	Type   entity.NotificationType
	Title  string
	Body   string
	Data   map[string]any
}

// NotificationUsecase defines the caller's inbox operations.
type NotificationUsecase interface {
	List(ctx context.Context, actor entity.Actor, page entity.PageRequest) (*entity.Page[*entity.Notification], error)
	UnreadCount(ctx context.Context, actor entity.Actor) (int64, error)
	MarkRead(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	MarkAllRead(ctx context.Context, actor entity.Actor) (int64, error)
	Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	DeleteAll(ctx context.Context, actor entity.Actor) (int64, error)
	Create(ctx context.Context, actor entity.Actor, input *CreateNotificationInput) (*entity.Notification, error)

	// Broadcast runs a fan-out received from the event queue. Only service.AudienceAdmins is known.
	Broadcast(ctx context.Context, audience string, msg service.NotificationMessage) error
}
