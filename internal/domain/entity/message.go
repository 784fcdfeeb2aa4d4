package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a single chat message. DeletedFor holds users that hid it from their own view.
type Message struct {
	ID         uuid.UUID    `json:"id"`
	ChatID     uuid.UUID    `json:"chatId"`
	SenderID   uuid.UUID    `json:"senderId"`
	Sender     *UserSummary `json:"sender,omitempty"`
	ReceiverID uuid.UUID    `json:"receiverId"`
	Content    string       `json:"content" validate:"required,min=1,max=2000"`
	IsRead     bool         `json:"isRead"`
	DeletedFor []uuid.UUID  `json:"-"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// NewMessage returns an unread message with trimmed content.
func NewMessage(chatID, senderID, receiverID uuid.UUID, content string) *Message {
	return &Message{
		ChatID:     chatID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    strings.TrimSpace(content),
	}
}

// Preview truncates content to n runes for notification bodies.
func (m *Message) Preview(n int) string {
	r := []rune(m.Content)
	if len(r) <= n {
		return m.Content
	}

	return string(r[:n])
}
