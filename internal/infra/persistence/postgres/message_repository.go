package postgres

import (
	"context"
	"slices"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const notHiddenCondition = "NOT EXISTS (SELECT 1 FROM message_deletions md WHERE md.message_id = messages.id AND md.user_id = ?)"

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (repo *messageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Message, error) {
	var messageM model.MessageModel
	if err := repo.db.WithContext(ctx).
		Preload("Sender").
		Preload("Deletions").
		Where("id = ?", id).
		First(&messageM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMessageNotFound
		}

		return nil, errors.Wrap(err, "failed to find message")
	}

	return toMessageDomain(&messageM), nil
}

func (repo *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	messageM := fromMessageDomain(message)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(messageM).Error; err != nil {
		return writeError(err, "message", "failed to create message")
	}

	message.ID = messageM.ID
	message.CreatedAt = messageM.CreatedAt
	message.UpdatedAt = messageM.UpdatedAt

	return nil
}

func (repo *messageRepository) visible(ctx context.Context, chatID, viewerID uuid.UUID) *gorm.DB {
	return repo.db.WithContext(ctx).
		Model(&model.MessageModel{}).
		Where("chat_id = ?", chatID).
		Where(notHiddenCondition, viewerID)
}

// ListVisible pages from the newest message backwards and returns the page oldest first.
func (repo *messageRepository) ListVisible(
	ctx context.Context,
	chatID, viewerID uuid.UUID,
	page entity.PageRequest,
) ([]*entity.Message, int64, error) {
	query := repo.visible(ctx, chatID, viewerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count messages")
	}

	var messageModels []*model.MessageModel
	if err := query.
		Preload("Sender").
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&messageModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list messages")
	}
	slices.Reverse(messageModels)

	messages := make([]*entity.Message, 0, len(messageModels))
	for _, m := range messageModels {
		messages = append(messages, toMessageDomain(m))
	}

	return messages, total, nil
}

func (repo *messageRepository) LatestVisible(ctx context.Context, chatID, viewerID uuid.UUID) (*entity.Message, error) {
	var messageM model.MessageModel
	if err := repo.visible(ctx, chatID, viewerID).
		Order("created_at DESC").
		Order("id DESC").
		First(&messageM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMessageNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest message")
	}

	return toMessageDomain(&messageM), nil
}

func (repo *messageRepository) MarkRead(ctx context.Context, chatID, readerID uuid.UUID) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.MessageModel{}).
		Where("chat_id = ? AND receiver_id = ? AND is_read = ?", chatID, readerID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark messages as read")
	}

	return result.RowsAffected, nil
}

func (repo *messageRepository) HideFor(ctx context.Context, messageID, userID uuid.UUID) error {
	deletion := &model.MessageDeletionModel{MessageID: messageID, UserID: userID}
	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(deletion).Error; err != nil {
		return writeError(err, "message", "failed to delete message")
	}

	return nil
}

// --- Mapper Functions ---

func toMessageDomain(data *model.MessageModel) *entity.Message {
	deletedFor := make([]uuid.UUID, 0, len(data.Deletions))
	for _, d := range data.Deletions {
		deletedFor = append(deletedFor, d.UserID)
	}

	return &entity.Message{
		ID:         data.ID,
		ChatID:     data.ChatID,
		SenderID:   data.SenderID,
		Sender:     toUserSummary(data.Sender),
		ReceiverID: data.ReceiverID,
		Content:    data.Content,
		IsRead:     data.IsRead,
		DeletedFor: deletedFor,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func fromMessageDomain(data *entity.Message) *model.MessageModel {
	return &model.MessageModel{
		ID:         data.ID,
		ChatID:     data.ChatID,
		SenderID:   data.SenderID,
		ReceiverID: data.ReceiverID,
		Content:    data.Content,
		IsRead:     data.IsRead,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
