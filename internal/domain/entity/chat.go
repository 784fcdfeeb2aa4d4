package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a conversation between exactly two users.
type Chat struct {
	ID              uuid.UUID          `json:"id"`
	IsAdminSupport  bool               `json:"isAdminSupport"`
	LastMessage     *string            `json:"lastMessage"`
	LastMessageTime *time.Time         `json:"lastMessageTime"`
	Participants    []*ChatParticipant `json:"-"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// ChatParticipant is one user's view of a chat: its own summary and unread counter.
type ChatParticipant struct {
	ChatID          uuid.UUID    `json:"chatId"`
	UserID          uuid.UUID    `json:"userId"`
	User            *UserSummary `json:"user,omitempty"`
	LastMessage     *string      `json:"lastMessage"`
	LastMessageTime *time.Time   `json:"lastMessageTime"`
	UnreadCount     int          `json:"unreadCount"`
}

// NewChat returns a chat between a and b with an empty participant row for each.
func NewChat(a, b uuid.UUID, isAdminSupport bool) *Chat {
	return &Chat{
		IsAdminSupport: isAdminSupport,
		Participants: []*ChatParticipant{
			{UserID: a},
			{UserID: b},
		},
	}
}

// HasParticipant reports whether userID takes part in the chat.
func (c *Chat) HasParticipant(userID uuid.UUID) bool {
	return c.State(userID) != nil
}

// State returns userID's participant row, or nil.
func (c *Chat) State(userID uuid.UUID) *ChatParticipant {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return p
		}
	}

	return nil
}

// Other returns the participant that is not userID, or nil.
func (c *Chat) Other(userID uuid.UUID) *ChatParticipant {
	for _, p := range c.Participants {
		if p.UserID != userID {
			return p
		}
	}

	return nil
}

// ChatView is a chat as seen by one participant.
type ChatView struct {
	ID              uuid.UUID    `json:"id"`
	IsAdminSupport  bool         `json:"isAdminSupport"`
	OtherUser       *UserSummary `json:"otherUser"`
	LastMessage     *string      `json:"lastMessage"`
	LastMessageTime *time.Time   `json:"lastMessageTime"`
	UnreadCount     int          `json:"unreadCount"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// ViewFor projects the chat for viewerID. The other participant's User must be loaded to fill OtherUser.
func (c *Chat) ViewFor(viewerID uuid.UUID) *ChatView {
	view := &ChatView{
		ID:             c.ID,
		IsAdminSupport: c.IsAdminSupport,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if own := c.State(viewerID); own != nil {
		view.LastMessage = own.LastMessage
		view.LastMessageTime = own.LastMessageTime
		view.UnreadCount = own.UnreadCount
	}
	if other := c.Other(viewerID); other != nil {
		view.OtherUser = other.User
	}

	return view
}
