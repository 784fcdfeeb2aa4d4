package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255)"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Role         string    `gorm:"type:varchar(16);not null;default:'user';index"`
	IsActive     bool      `gorm:"not null;default:true"`
	GoogleID     *string   `gorm:"type:varchar(255);uniqueIndex"`
	PhoneNumber  *string   `gorm:"type:varchar(32);uniqueIndex"`
	PhotoURL     *string   `gorm:"type:text"`
	Bio          string    `gorm:"type:varchar(500)"`
	IsDarkMode   bool      `gorm:"not null;default:true"`
	Locale       string    `gorm:"type:varchar(10);not null;default:'en'"`
	FCMToken     *string   `gorm:"column:fcm_token;type:text"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// BeforeCreate assigns the primary key.
func (m *UserModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
