package impl

import (
	"context"
	"fmt"
	"log/slog"

	"rentalhub/config"
	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/domain/validation"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	maxNotificationTitle = 200
	maxNotificationBody  = 500
)

// notificationSender stores a notification and pushes it to the recipient's device.
type notificationSender struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	push             service.PushNotificationService
	logger           *slog.Logger
}

// NotificationSenderParams holds dependencies for the notification sender, injected by Fx.
type NotificationSenderParams struct {
	fx.In

	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Push             service.PushNotificationService
	Logger           *slog.Logger
}

// NewNotificationSender persists first and treats the push as best effort.
func NewNotificationSender(params NotificationSenderParams) service.NotificationSender {
	return &notificationSender{
		notificationRepo: params.NotificationRepo,
		userRepo:         params.UserRepo,
		push:             params.Push,
		logger:           params.Logger,
	}
}

func (s *notificationSender) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

func (s *notificationSender) Send(ctx context.Context, userID uuid.UUID, msg service.NotificationMessage) (*entity.Notification, error) {
	notification := &entity.Notification{
		UserID: userID,
		Type:   msg.Type,
		Title:  truncateRunes(msg.Title, maxNotificationTitle),
		Body:   truncateRunes(msg.Body, maxNotificationBody),
		Data:   msg.Data,
	}
	if err := validation.Struct(notification); err != nil {
		return nil, err
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, errors.Wrap(err, "failed to create notification")
	}

	s.pushToDevice(ctx, notification)

	return notification, nil
}

func (s *notificationSender) pushToDevice(ctx context.Context, notification *entity.Notification) {
	user, err := s.userRepo.FindByID(ctx, notification.UserID)
	if err != nil {
		s.log(ctx).Warn("Skipping push, recipient not loaded",
			slog.String("userID", notification.UserID.String()),
			slog.Any("error", err))

		return
	}
	if user.FCMToken == nil || *user.FCMToken == "" {
		return
	}

	data := map[string]string{
		"notificationId": notification.ID.String(),
		"type":           string(notification.Type),
	}
	for k, v := range notification.Data {
		data[k] = fmt.Sprint(v)
	}

	if err := s.push.SendSingleNotification(ctx, *user.FCMToken, notification.Title, notification.Body, data); err != nil {
		s.log(ctx).Warn("Failed to push notification",
			slog.String("userID", notification.UserID.String()),
			slog.String("notificationID", notification.ID.String()),
			slog.Any("error", err))
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}

// syncAdminNotifier sends to every active admin in the calling goroutine.
type syncAdminNotifier struct {
	userRepo repository.UserRepository
	sender   service.NotificationSender
	logger   *slog.Logger
}

// NewSyncAdminNotifier is used directly by the notifier worker and by the API when fan-out is "sync".
func NewSyncAdminNotifier(userRepo repository.UserRepository, sender service.NotificationSender, logger *slog.Logger) service.AdminNotifier {
	return &syncAdminNotifier{userRepo: userRepo, sender: sender, logger: logger}
}

func (n *syncAdminNotifier) NotifyAllAdmins(ctx context.Context, msg service.NotificationMessage) error {
	admins, err := n.userRepo.FindActiveAdmins(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load admins")
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, n.logger)
	sent := 0
	for _, admin := range admins {
		if _, err := n.sender.Send(ctx, admin.ID, msg); err != nil {
			logger.Warn("Failed to notify admin",
				slog.String("adminID", admin.ID.String()),
				slog.Any("error", err))

			continue
		}
		sent++
	}
	logger.Debug("Admin fan-out completed", slog.Int("admins", len(admins)), slog.Int("sent", sent))

	return nil
}

// queuedAdminNotifier hands the fan-out to the notifier worker through the event publisher.
type queuedAdminNotifier struct {
	publisher service.EventPublisher
}

func (n *queuedAdminNotifier) NotifyAllAdmins(ctx context.Context, msg service.NotificationMessage) error {
	event := &service.NotificationEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		Audience:  service.AudienceAdmins,
		Type:      string(msg.Type),
		Title:     msg.Title,
		Body:      msg.Body,
		Data:      msg.Data,
	}
	if err := n.publisher.PublishNotificationEvent(ctx, event); err != nil {
		return errors.Wrap(err, "failed to publish admin notification event")
	}

	return nil
}

// AdminNotifierParams holds dependencies for NewAdminNotifier, injected by Fx.
type AdminNotifierParams struct {
	fx.In

	Config    *config.Config
	UserRepo  repository.UserRepository
	Sender    service.NotificationSender
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewAdminNotifier selects the fan-out strategy from notifications.adminFanout.
func NewAdminNotifier(params AdminNotifierParams) service.AdminNotifier {
	if params.Config.Notifications != nil && params.Config.Notifications.AdminFanout == constants.AdminFanoutQueued {
		return &queuedAdminNotifier{publisher: params.Publisher}
	}

	return NewSyncAdminNotifier(params.UserRepo, params.Sender, params.Logger)
}
