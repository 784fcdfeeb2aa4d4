package service

import (
	"context"
)

// PushNotificationService delivers push notifications to devices.
type PushNotificationService interface {
	// SendSingleNotification sends a push notification to a single device token
	SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error
}
