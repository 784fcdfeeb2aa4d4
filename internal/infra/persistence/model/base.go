// Package model holds the GORM persistence structs. Primary keys are UUIDv7
// values assigned in BeforeCreate so the same schema runs on PostgreSQL and SQLite.
package model

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}

	v7, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "failed to generate uuid v7")
	}
	*id = v7

	return nil
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&UserModel{},
		&PropertyModel{},
		&PropertyAmenityModel{},
		&ReviewModel{},
		&ReviewHelpfulVoteModel{},
		&FavoriteModel{},
		&ViewingModel{},
		&ChatModel{},
		&ChatParticipantModel{},
		&MessageModel{},
		&MessageDeletionModel{},
		&NotificationModel{},
	}
}
