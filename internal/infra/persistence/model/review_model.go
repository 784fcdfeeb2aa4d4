package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewModel mirrors the 'reviews' table. One review per (user, property).
type ReviewModel struct {
	ID           uuid.UUID                `gorm:"type:uuid;primaryKey"`
	PropertyID   uuid.UUID                `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_user_property,priority:2"`
	UserID       uuid.UUID                `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_user_property,priority:1"`
	UserName     string                   `gorm:"type:varchar(100);not null"`
	UserPhotoURL *string                  `gorm:"type:text"`
	Rating       int                      `gorm:"not null"`
	ReviewText   string                   `gorm:"type:varchar(1000);not null"`
	HelpfulCount int                      `gorm:"not null;default:0"`
	HelpfulVotes []ReviewHelpfulVoteModel `gorm:"foreignKey:ReviewID"`
	CreatedAt    time.Time                `gorm:"index"`
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}

// BeforeCreate assigns the primary key.
func (m *ReviewModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}

// ReviewHelpfulVoteModel mirrors the 'review_helpful_votes' table.
type ReviewHelpfulVoteModel struct {
	ReviewID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewHelpfulVoteModel) TableName() string {
	return "review_helpful_votes"
}
