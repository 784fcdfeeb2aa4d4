package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType categorizes a notification for the client.
type NotificationType string

const (
	NotificationTypeMessage        NotificationType = "message"
	NotificationTypePropertyUpdate NotificationType = "propertyUpdate"
	NotificationTypeReview         NotificationType = "review"
	NotificationTypeSystem         NotificationType = "system"
	NotificationTypeSupportMessage NotificationType = "supportMessage"
	NotificationTypeViewing        NotificationType = "viewing"
	NotificationTypeApproval       NotificationType = "approval"
)

// IsValid checks if the type is one of the known notification types.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeMessage, NotificationTypePropertyUpdate, NotificationTypeReview,
		NotificationTypeSystem, NotificationTypeSupportMessage, NotificationTypeViewing,
		NotificationTypeApproval:
		return true
	default:
		return false
	}
}

// Notification is an in-app message addressed to a single user.
type Notification struct {
	ID        uuid.UUID        `json:"id"`                                                                                                  // The Global Unique Identifier (GUID) for the notification.
	UserID    uuid.UUID        `json:"userId"`                                                                                              // Recipient.
	Type      NotificationType `json:"type" validate:"required,oneof=message propertyUpdate review system supportMessage viewing approval"` // Client-side category.
	Title     string           `json:"title" validate:"required,max=200"`                                                                   // Short heading.
	Body      string           `json:"body" validate:"required,max=500"`                                                                    // Text shown to the user.
	Data      map[string]any   `json:"data,omitempty"`                                                                                      // Routing payload, e.g. {"propertyId": ...}.
	IsRead    bool             `json:"isRead"`                                                                                              // Whether the recipient has read it.
	CreatedAt time.Time        `json:"createdAt"`                                                                                           // Timestamp of when the notification was created.
	UpdatedAt time.Time        `json:"updatedAt"`                                                                                           // Timestamp of the last modification.
}
