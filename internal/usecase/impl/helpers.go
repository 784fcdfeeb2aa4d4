// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
)

// notFound maps a repository sentinel to the 404 of resource and wraps anything else.
func notFound(err, sentinel error, resource, message string) error {
	if errors.Is(err, sentinel) {
		return domainerrors.NotFound(resource)
	}

	return errors.Wrap(err, message)
}

// pageOf assembles the paginated response of a repository listing.
func pageOf[T any](items []T, total int64, req entity.PageRequest) *entity.Page[T] {
	if items == nil {
		items = []T{}
	}

	return &entity.Page[T]{
		Items:      items,
		Pagination: entity.NewPagination(req, total),
	}
}

func defaultPage(req entity.PageRequest, defaultLimit int) entity.PageRequest {
	return entity.NewPageRequest(req.Page, req.Limit, defaultLimit, constants.MaxPageLimit)
}

// notifyUser sends a notification after the triggering write committed.
// Failures are logged and never surface to the caller.
func notifyUser(ctx context.Context, logger *slog.Logger, sender service.NotificationSender, userID uuid.UUID, msg service.NotificationMessage) {
	if _, err := sender.Send(ctx, userID, msg); err != nil {
		logger.Warn("Failed to send notification",
			slog.String("userID", userID.String()),
			slog.String("type", string(msg.Type)),
			slog.Any("error", err))
	}
}

// notifyAdmins fans msg out to every admin. Failures are logged only.
func notifyAdmins(ctx context.Context, logger *slog.Logger, notifier service.AdminNotifier, msg service.NotificationMessage) {
	if err := notifier.NotifyAllAdmins(ctx, msg); err != nil {
		logger.Warn("Failed to notify admins",
			slog.String("type", string(msg.Type)),
			slog.Any("error", err))
	}
}
