package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FavoriteModel mirrors the 'favorites' table.
type FavoriteModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_property,priority:1"`
	PropertyID uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_favorites_user_property,priority:2"`
	Property   *PropertyModel `gorm:"foreignKey:PropertyID"`
	CreatedAt  time.Time      `gorm:"index"`
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (FavoriteModel) TableName() string {
	return "favorites"
}

// BeforeCreate assigns the primary key.
func (m *FavoriteModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
