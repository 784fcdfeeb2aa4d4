package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageModel mirrors the 'messages' table.
type MessageModel struct {
	ID         uuid.UUID              `gorm:"type:uuid;primaryKey"`
	ChatID     uuid.UUID              `gorm:"type:uuid;not null;index:idx_messages_chat_created,priority:1"`
	SenderID   uuid.UUID              `gorm:"type:uuid;not null"`
	Sender     *UserModel             `gorm:"foreignKey:SenderID"`
	ReceiverID uuid.UUID              `gorm:"type:uuid;not null;index"`
	Content    string                 `gorm:"type:varchar(2000);not null"`
	IsRead     bool                   `gorm:"not null;default:false"`
	Deletions  []MessageDeletionModel `gorm:"foreignKey:MessageID"`
	CreatedAt  time.Time              `gorm:"index:idx_messages_chat_created,priority:2"`
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (MessageModel) TableName() string {
	return "messages"
}

// BeforeCreate assigns the primary key.
func (m *MessageModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}

// MessageDeletionModel mirrors the 'message_deletions' table: a message hidden from one user.
type MessageDeletionModel struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (MessageDeletionModel) TableName() string {
	return "message_deletions"
}
