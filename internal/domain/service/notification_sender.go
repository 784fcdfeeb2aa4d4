package service

import (
	"context"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// NotificationMessage is the content of a notification before it is addressed.
type NotificationMessage struct {
	Type  entity.NotificationType
	Title string
	Body  string
	Data  map[string]any
}

// NotificationSender persists a notification for one user and pushes it when possible.
type NotificationSender interface {
	Send(ctx context.Context, userID uuid.UUID, msg NotificationMessage) (*entity.Notification, error)
}

// AdminNotifier fans a notification out to every active admin.
// Per-admin failures are logged and skipped. An error means the fan-out could not start.
type AdminNotifier interface {
	NotifyAllAdmins(ctx context.Context, msg NotificationMessage) error
}
