package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatModel mirrors the 'chats' table.
type ChatModel struct {
	ID              uuid.UUID              `gorm:"type:uuid;primaryKey"`
	IsAdminSupport  bool                   `gorm:"not null;default:false;index"`
	LastMessage     *string                `gorm:"type:text"`
	LastMessageTime *time.Time             `gorm:"index"`
	Participants    []ChatParticipantModel `gorm:"foreignKey:ChatID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ChatModel) TableName() string {
	return "chats"
}

// BeforeCreate assigns the primary key.
func (m *ChatModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}

// ChatParticipantModel mirrors the 'chat_participants' table: one row per (chat, user)
// holding that user's summary of the chat and unread counter.
type ChatParticipantModel struct {
	ChatID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"type:uuid;primaryKey;index"`
	User            *UserModel `gorm:"foreignKey:UserID"`
	LastMessage     *string    `gorm:"type:text"`
	LastMessageTime *time.Time
	UnreadCount     int `gorm:"not null;default:0"`
}

// TableName explicitly sets the table name for GORM.
func (ChatParticipantModel) TableName() string {
	return "chat_participants"
}
