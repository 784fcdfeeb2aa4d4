package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// notificationService implements the NotificationUsecase interface.
type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	sender           service.NotificationSender
	adminNotifier    service.AdminNotifier
	logger           *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Sender           service.NotificationSender
	AdminNotifier    service.AdminNotifier
	Logger           *slog.Logger
}

// NewNotificationService is the constructor for notificationService.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		notificationRepo: params.NotificationRepo,
		userRepo:         params.UserRepo,
		sender:           params.Sender,
		adminNotifier:    params.AdminNotifier,
		logger:           params.Logger,
	}
}

func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *notificationService) List(ctx context.Context, actor entity.Actor, page entity.PageRequest) (*entity.Page[*entity.Notification], error) {
	page = defaultPage(page, constants.DefaultLongPageLimit)

	notifications, total, err := srv.notificationRepo.List(ctx, actor.ID, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}

	return pageOf(notifications, total, page), nil
}

// UnreadCount is a live count, unlike the maintained chat counters.
func (srv *notificationService) UnreadCount(ctx context.Context, actor entity.Actor) (int64, error) {
	count, err := srv.notificationRepo.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}

	return count, nil
}

func (srv *notificationService) MarkRead(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if err := srv.ownNotification(ctx, actor, id); err != nil {
		return err
	}
	if err := srv.notificationRepo.MarkRead(ctx, id); err != nil {
		return notFound(err, repository.ErrNotificationNotFound, "Notification", "failed to mark notification as read")
	}

	return nil
}

func (srv *notificationService) MarkAllRead(ctx context.Context, actor entity.Actor) (int64, error) {
	count, err := srv.notificationRepo.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to mark notifications as read")
	}

	return count, nil
}

func (srv *notificationService) Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if err := srv.ownNotification(ctx, actor, id); err != nil {
		return err
	}
	if err := srv.notificationRepo.Delete(ctx, id); err != nil {
		return notFound(err, repository.ErrNotificationNotFound, "Notification", "failed to delete notification")
	}

	return nil
}

func (srv *notificationService) DeleteAll(ctx context.Context, actor entity.Actor) (int64, error) {
	count, err := srv.notificationRepo.DeleteAll(ctx, actor.ID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete notifications")
	}

	return count, nil
}

func (srv *notificationService) ownNotification(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	notification, err := srv.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, repository.ErrNotificationNotFound, "Notification", "failed to find notification")
	}
	if notification.UserID != actor.ID {
		return domainerrors.Forbidden("Not authorized")
	}

	return nil
}

// Create lets an admin address a notification to any existing user.
func (srv *notificationService) Create(ctx context.Context, actor entity.Actor, input *usecase.CreateNotificationInput) (*entity.Notification, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}
	if _, err := srv.userRepo.FindByID(ctx, input.UserID); err != nil {
		return nil, notFound(err, repository.ErrUserNotFound, "User", "failed to find user")
	}

	notificationType := input.Type
	if notificationType == "" {
		notificationType = entity.NotificationTypeSystem
	}

	notification, err := srv.sender.Send(ctx, input.UserID, service.NotificationMessage{
		Type:  notificationType,
		Title: strings.TrimSpace(input.Title),
		Body:  strings.TrimSpace(input.Body),
		Data:  input.Data,
	})
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Info("Notification created by admin",
		slog.String("notificationID", notification.ID.String()),
		slog.String("userID", input.UserID.String()))

	return notification, nil
}

// Broadcast executes a fan-out delivered by the event queue.
func (srv *notificationService) Broadcast(ctx context.Context, audience string, msg service.NotificationMessage) error {
	switch audience {
	case service.AudienceAdmins:
		return srv.adminNotifier.NotifyAllAdmins(ctx, msg)
	default:
		return domainerrors.BadRequest("Unknown notification audience: " + audience)
	}
}
