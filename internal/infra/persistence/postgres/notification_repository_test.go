package postgres_test

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewNotificationRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "user@example.com", entity.RoleUser)
	other := createUser(t, db, "other@example.com", entity.RoleUser)

	for _, title := range []string{"first", "second"} {
		require.NoError(t, repo.Create(ctx, &entity.Notification{
			UserID: user.ID,
			Type:   entity.NotificationTypeSystem,
			Title:  title,
			Body:   "body",
			Data:   map[string]any{"propertyId": "p-1"},
		}))
	}
	require.NoError(t, repo.Create(ctx, &entity.Notification{
		UserID: other.ID, Type: entity.NotificationTypeReview, Title: "x", Body: "y",
	}))

	list, total, err := repo.List(ctx, user.ID, entity.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "p-1", list[0].Data["propertyId"])

	unread, err := repo.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	require.NoError(t, repo.MarkRead(ctx, list[0].ID))
	changed, err := repo.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	unread, err = repo.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	require.NoError(t, repo.Delete(ctx, list[0].ID))
	assert.ErrorIs(t, repo.Delete(ctx, list[0].ID), repository.ErrNotificationNotFound)

	deleted, err := repo.DeleteAll(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	unread, err = repo.CountUnread(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}
