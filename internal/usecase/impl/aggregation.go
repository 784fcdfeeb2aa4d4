package impl

// Derived-field maintenance. Every function takes the repositories of the caller's
// transaction so the triggering write and its recompute commit together.

import (
	"context"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
)

// refreshRating recomputes a property's rating from its remaining reviews.
// A property that no longer exists has nothing to refresh.
func refreshRating(ctx context.Context, repos repository.RepositoryFactory, propertyID uuid.UUID) error {
	summary, err := repos.NewReviewRepository().RatingSummary(ctx, propertyID)
	if err != nil {
		return errors.Wrap(err, "failed to aggregate reviews")
	}

	err = repos.NewPropertyRepository().UpdateRating(ctx, propertyID, summary)
	if err != nil && !errors.Is(err, repository.ErrPropertyNotFound) {
		return errors.Wrap(err, "failed to update property rating")
	}

	return nil
}

// refreshParticipantSummary points viewerID's chat summary at the newest
// message still visible to them, or clears it when none is left.
func refreshParticipantSummary(ctx context.Context, repos repository.RepositoryFactory, chatID, viewerID uuid.UUID) error {
	latest, err := repos.NewMessageRepository().LatestVisible(ctx, chatID, viewerID)
	switch {
	case errors.Is(err, repository.ErrMessageNotFound):
		return repos.NewChatRepository().SetParticipantSummary(ctx, chatID, viewerID, nil, nil)
	case err != nil:
		return errors.Wrap(err, "failed to load latest message")
	}

	content := latest.Content
	at := latest.CreatedAt

	return repos.NewChatRepository().SetParticipantSummary(ctx, chatID, viewerID, &content, &at)
}

// recordMessage stores msg and advances both participants' summaries and the receiver's counter.
func recordMessage(ctx context.Context, repos repository.RepositoryFactory, msg *entity.Message) error {
	if err := repos.NewMessageRepository().Create(ctx, msg); err != nil {
		return errors.Wrap(err, "failed to create message")
	}

	at := msg.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}

	if err := repos.NewChatRepository().RecordMessage(ctx, msg.ChatID, msg.SenderID, msg.ReceiverID, msg.Content, at); err != nil {
		return errors.Wrap(err, "failed to update chat summary")
	}

	return nil
}

// markChatRead zeroes the reader's counter and flags the messages addressed to them.
func markChatRead(ctx context.Context, repos repository.RepositoryFactory, chatID, readerID uuid.UUID) error {
	if err := repos.NewChatRepository().ResetUnread(ctx, chatID, readerID); err != nil {
		return errors.Wrap(err, "failed to reset unread counter")
	}
	if _, err := repos.NewMessageRepository().MarkRead(ctx, chatID, readerID); err != nil {
		return errors.Wrap(err, "failed to mark messages as read")
	}

	return nil
}
