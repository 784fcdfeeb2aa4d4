// Package notification delivers push notifications through Firebase Cloud Messaging.
package notification

import (
	"context"
	"log/slog"

	"rentalhub/config"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// messagingClient is the part of *messaging.Client the push service uses.
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type firebaseService struct {
	client messagingClient
}

// NewFirebaseService creates a new Firebase notification service instance
func NewFirebaseService(ctx context.Context, cfg *config.FirebaseConfig) (service.PushNotificationService, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	return &firebaseService{
		client: client,
	}, nil
}

// SendSingleNotification sends a push notification to a single device token
func (s *firebaseService) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		return errors.Wrap(err, "failed to send notification")
	}

	return nil
}

type noopPushService struct {
	logger *slog.Logger
}

// NewNoopPushService returns a pusher that only logs, used when Firebase is not configured.
func NewNoopPushService(logger *slog.Logger) service.PushNotificationService {
	return &noopPushService{logger: logger}
}

func (s *noopPushService) SendSingleNotification(ctx context.Context, _, title, _ string, _ map[string]string) error {
	s.logger.DebugContext(ctx, "Push disabled, skipping notification", slog.String("title", title))

	return nil
}

// NewPushService picks Firebase when it is configured and the no-op pusher otherwise.
func NewPushService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.PushNotificationService, error) {
	if cfg.Firebase == nil || (cfg.Firebase.ProjectID == "" && cfg.Firebase.CredentialsPath == "") {
		logger.Info("Firebase not configured, push notifications disabled")

		return NewNoopPushService(logger), nil
	}

	return NewFirebaseService(ctx, cfg.Firebase)
}
