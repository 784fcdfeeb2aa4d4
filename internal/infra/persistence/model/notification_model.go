package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationModel is the GORM-specific struct for the 'notifications' table.
type NotificationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1"`
	Type      string    `gorm:"type:varchar(32);not null;default:'system'"`
	Title     string    `gorm:"type:varchar(200);not null"`
	Body      string    `gorm:"type:varchar(500);not null"`
	Data      datatypes.JSONMap
	IsRead    bool      `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (NotificationModel) TableName() string {
	return "notifications"
}

// BeforeCreate assigns the primary key.
func (m *NotificationModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
