package service

import (
	"context"
)

// AudienceAdmins addresses every active admin.
const AudienceAdmins = "admins"

// NotificationEvent is a notification fan-out executed by the notifier worker.
type NotificationEvent struct {
	RequestID string         `json:"requestId,omitempty"` // For distributed tracing
	Audience  string         `json:"audience"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishNotificationEvent publishes a notification event for async processing
	PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
