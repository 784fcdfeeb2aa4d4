package postgres

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const participantChatsSubquery = "SELECT chat_id FROM chat_participants WHERE user_id = ?"

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *gorm.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

func withParticipants(db *gorm.DB) *gorm.DB {
	return db.Preload("Participants").Preload("Participants.User")
}

func (repo *chatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error) {
	return repo.findOne(withParticipants(repo.db.WithContext(ctx)).Where("id = ?", id))
}

// FindBetween returns the oldest chat of the given kind shared by a and b.
func (repo *chatRepository) FindBetween(ctx context.Context, a, b uuid.UUID, isAdminSupport bool) (*entity.Chat, error) {
	return repo.findOne(withParticipants(repo.db.WithContext(ctx)).
		Where("is_admin_support = ?", isAdminSupport).
		Where("id IN ("+participantChatsSubquery+")", a).
		Where("id IN ("+participantChatsSubquery+")", b).
		Order("created_at ASC"))
}

func (repo *chatRepository) findOne(query *gorm.DB) (*entity.Chat, error) {
	var chatM model.ChatModel
	if err := query.First(&chatM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrChatNotFound
		}

		return nil, errors.Wrap(err, "failed to find chat")
	}

	return toChatDomain(&chatM), nil
}

// ListForUser orders by the user's own summary time; chats without messages come last.
func (repo *chatRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Chat, error) {
	var chatModels []*model.ChatModel
	if err := withParticipants(repo.db.WithContext(ctx)).
		Joins("JOIN chat_participants cp ON cp.chat_id = chats.id AND cp.user_id = ?", userID).
		Order("cp.last_message_time IS NULL, cp.last_message_time DESC, chats.created_at DESC").
		Find(&chatModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list chats")
	}

	return toChatDomains(chatModels), nil
}

func (repo *chatRepository) ListAdminSupport(ctx context.Context) ([]*entity.Chat, error) {
	var chatModels []*model.ChatModel
	if err := withParticipants(repo.db.WithContext(ctx)).
		Where("is_admin_support = ?", true).
		Order("last_message_time IS NULL, last_message_time DESC, created_at DESC").
		Find(&chatModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list support chats")
	}

	return toChatDomains(chatModels), nil
}

// Create inserts the chat and one row per participant.
func (repo *chatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	chatM := fromChatDomain(chat)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(chatM).Error; err != nil {
			return writeError(err, "chat", "failed to create chat")
		}

		participants := make([]model.ChatParticipantModel, 0, len(chat.Participants))
		for _, p := range chat.Participants {
			participants = append(participants, model.ChatParticipantModel{
				ChatID:          chatM.ID,
				UserID:          p.UserID,
				LastMessage:     p.LastMessage,
				LastMessageTime: p.LastMessageTime,
				UnreadCount:     p.UnreadCount,
			})
		}
		if len(participants) == 0 {
			return nil
		}
		if err := tx.Omit(clause.Associations).Create(&participants).Error; err != nil {
			return writeError(err, "chat", "failed to add chat participants")
		}

		return nil
	})
	if err != nil {
		return err
	}

	chat.ID = chatM.ID
	chat.CreatedAt = chatM.CreatedAt
	chat.UpdatedAt = chatM.UpdatedAt
	for _, p := range chat.Participants {
		p.ChatID = chatM.ID
	}

	return nil
}

// RecordMessage stores content as the latest message for the chat and both participants.
func (repo *chatRepository) RecordMessage(
	ctx context.Context,
	chatID, senderID, receiverID uuid.UUID,
	content string,
	at time.Time,
) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.ChatModel{}).
			Where("id = ?", chatID).
			Updates(map[string]any{
				"last_message":      content,
				"last_message_time": at,
			})
		if result.Error != nil {
			return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update chat summary")
		}
		if result.RowsAffected == 0 {
			return repository.ErrChatNotFound
		}

		if err := tx.Model(&model.ChatParticipantModel{}).
			Where("chat_id = ? AND user_id IN ?", chatID, []uuid.UUID{senderID, receiverID}).
			UpdateColumns(map[string]any{
				"last_message":      content,
				"last_message_time": at,
			}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to update participant summaries")
		}

		if err := tx.Model(&model.ChatParticipantModel{}).
			Where("chat_id = ? AND user_id = ?", chatID, receiverID).
			UpdateColumn("unread_count", gorm.Expr("unread_count + 1")).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to increment unread count")
		}

		return nil
	})
}

func (repo *chatRepository) SetParticipantSummary(
	ctx context.Context,
	chatID, userID uuid.UUID,
	lastMessage *string,
	at *time.Time,
) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ChatParticipantModel{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		UpdateColumns(map[string]any{
			"last_message":      lastMessage,
			"last_message_time": at,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update participant summary")
	}
	if result.RowsAffected == 0 {
		return repository.ErrChatNotFound
	}

	return nil
}

func (repo *chatRepository) ResetUnread(ctx context.Context, chatID, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.ChatParticipantModel{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		UpdateColumn("unread_count", 0).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to reset unread count")
	}

	return nil
}

func (repo *chatRepository) TotalUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ChatParticipantModel{}).
		Select("COALESCE(SUM(unread_count), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed to sum unread counts")
	}

	return total, nil
}

// --- Mapper Functions ---

func toChatDomain(data *model.ChatModel) *entity.Chat {
	if data == nil {
		return nil
	}

	participants := make([]*entity.ChatParticipant, 0, len(data.Participants))
	for _, p := range data.Participants {
		participants = append(participants, &entity.ChatParticipant{
			ChatID:          p.ChatID,
			UserID:          p.UserID,
			User:            toUserSummary(p.User),
			LastMessage:     p.LastMessage,
			LastMessageTime: p.LastMessageTime,
			UnreadCount:     p.UnreadCount,
		})
	}

	return &entity.Chat{
		ID:              data.ID,
		IsAdminSupport:  data.IsAdminSupport,
		LastMessage:     data.LastMessage,
		LastMessageTime: data.LastMessageTime,
		Participants:    participants,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func toChatDomains(models []*model.ChatModel) []*entity.Chat {
	chats := make([]*entity.Chat, 0, len(models))
	for _, m := range models {
		chats = append(chats, toChatDomain(m))
	}

	return chats
}

func fromChatDomain(data *entity.Chat) *model.ChatModel {
	return &model.ChatModel{
		ID:              data.ID,
		IsAdminSupport:  data.IsAdminSupport,
		LastMessage:     data.LastMessage,
		LastMessageTime: data.LastMessageTime,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
