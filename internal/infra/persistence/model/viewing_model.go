package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ViewingModel mirrors the 'viewings' table.
type ViewingModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	PropertyID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Property     *PropertyModel `gorm:"foreignKey:PropertyID"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	User         *UserModel     `gorm:"foreignKey:UserID"`
	OwnerID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Owner        *UserModel     `gorm:"foreignKey:OwnerID"`
	Date         time.Time      `gorm:"not null;index"`
	Status       string         `gorm:"type:varchar(16);not null;default:'pending';index"`
	Note         *string        `gorm:"type:varchar(500)"`
	CancelReason *string        `gorm:"type:varchar(500)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (ViewingModel) TableName() string {
	return "viewings"
}

// BeforeCreate assigns the primary key.
func (m *ViewingModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
