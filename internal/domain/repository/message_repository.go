package repository

import (
	"context"
	"errors"

	"rentalhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrMessageNotFound is returned when a message does not exist or is hidden from the viewer.
var ErrMessageNotFound = errors.New("message not found")

// MessageRepository persists chat messages.
type MessageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Message, error)
	Create(ctx context.Context, message *entity.Message) error
	// ListVisible returns the newest page of viewerID's non-deleted messages in chronological order.
	ListVisible(ctx context.Context, chatID, viewerID uuid.UUID, page entity.PageRequest) ([]*entity.Message, int64, error)
	// LatestVisible returns viewerID's newest non-deleted message in chatID.
	LatestVisible(ctx context.Context, chatID, viewerID uuid.UUID) (*entity.Message, error)
	// MarkRead flags every unread message addressed to readerID in chatID and returns how many changed.
	MarkRead(ctx context.Context, chatID, readerID uuid.UUID) (int64, error)
	// HideFor soft-deletes the message for userID. Repeating it is a no-op.
	HideFor(ctx context.Context, messageID, userID uuid.UUID) error
}
