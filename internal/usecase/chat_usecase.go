package usecase

import (
	"context"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// OpenChatInput names the other participant of a chat.
type OpenChatInput struct {
	UserID         uuid.UUID
	IsAdminSupport bool
}

// ChatUsecase defines two-party messaging. Per-participant summaries and unread
// counters are maintained in the same transaction as the triggering write.
type ChatUsecase interface {
	ListChats(ctx context.Context, actor entity.Actor) ([]*entity.ChatView, error)
	UnreadCount(ctx context.Context, actor entity.Actor) (int64, error)
	ListSupportChats(ctx context.Context, actor entity.Actor) ([]*entity.Chat, error)
	OpenChat(ctx context.Context, actor entity.Actor, input *OpenChatInput) (*entity.ChatView, error)
	OpenSupportChat(ctx context.Context, actor entity.Actor) (*entity.ChatView, error)

	// ListMessages returns the newest page of the caller's visible messages in chronological order.
	ListMessages(ctx context.Context, actor entity.Actor, chatID uuid.UUID, page entity.PageRequest) (*entity.Page[*entity.Message], error)
	SendMessage(ctx context.Context, actor entity.Actor, chatID uuid.UUID, content string) (*entity.Message, error)
	DeleteMessage(ctx context.Context, actor entity.Actor, chatID, messageID uuid.UUID) error
	MarkRead(ctx context.Context, actor entity.Actor, chatID uuid.UUID) error
}
