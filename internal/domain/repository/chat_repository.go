package repository

import (
	"context"
	"errors"
	"time"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrChatNotFound is returned when a chat does not exist.
var ErrChatNotFound = errors.New("chat not found")

// ChatRepository persists chats and the per-participant summary rows.
type ChatRepository interface {
	// FindByID loads the chat with both participant rows and their user summaries.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error)
	// FindBetween returns the chat of the given kind whose two participants are a and b.
	FindBetween(ctx context.Context, a, b uuid.UUID, isAdminSupport bool) (*entity.Chat, error)
	// ListForUser returns userID's chats ordered by their own lastMessageTime, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Chat, error)
	// ListAdminSupport returns every support chat ordered by lastMessageTime, newest first.
	ListAdminSupport(ctx context.Context) ([]*entity.Chat, error)
	// Create inserts the chat and its participant rows.
	Create(ctx context.Context, chat *entity.Chat) error

	// RecordMessage sets the global and both participants' summaries and increments the receiver's unread counter.
	RecordMessage(ctx context.Context, chatID, senderID, receiverID uuid.UUID, content string, at time.Time) error
	// SetParticipantSummary overwrites one participant's summary. Nil values clear it.
	SetParticipantSummary(ctx context.Context, chatID, userID uuid.UUID, lastMessage *string, at *time.Time) error
	// ResetUnread sets userID's counter in chatID to zero.
	ResetUnread(ctx context.Context, chatID, userID uuid.UUID) error
	// TotalUnread sums userID's counters across every chat.
	TotalUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}
