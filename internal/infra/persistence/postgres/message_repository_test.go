package postgres_test

import (
	"context"
	"testing"
	"time"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository_Visibility(t *testing.T) {
	db := newTestDB(t)
	chats := postgres.NewChatRepository(db)
	repo := postgres.NewMessageRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice@example.com", entity.RoleUser)
	bob := createUser(t, db, "bob@example.com", entity.RoleOwner)
	chat := entity.NewChat(alice.ID, bob.ID, false)
	require.NoError(t, chats.Create(ctx, chat))

	base := time.Now().Add(-time.Minute)
	var messages []*entity.Message
	for i, content := range []string{"one", "two", "three"} {
		msg := entity.NewMessage(chat.ID, alice.ID, bob.ID, content)
		msg.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, msg))
		messages = append(messages, msg)
	}

	page, total, err := repo.ListVisible(ctx, chat.ID, bob.ID, entity.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "two", page[0].Content)
	assert.Equal(t, "three", page[1].Content)
	require.NotNil(t, page[0].Sender)
	assert.Equal(t, alice.ID, page[0].Sender.ID)

	require.NoError(t, repo.HideFor(ctx, messages[2].ID, bob.ID))
	require.NoError(t, repo.HideFor(ctx, messages[2].ID, bob.ID))

	latest, err := repo.LatestVisible(ctx, chat.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "two", latest.Content)

	latest, err = repo.LatestVisible(ctx, chat.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "three", latest.Content)

	hidden, err := repo.FindByID(ctx, messages[2].ID)
	require.NoError(t, err)
	assert.Contains(t, hidden.DeletedFor, bob.ID)

	changed, err := repo.MarkRead(ctx, chat.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, changed)

	changed, err = repo.MarkRead(ctx, chat.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, changed)

	for _, id := range []int{0, 1} {
		require.NoError(t, repo.HideFor(ctx, messages[id].ID, bob.ID))
	}
	_, err = repo.LatestVisible(ctx, chat.ID, bob.ID)
	assert.ErrorIs(t, err, repository.ErrMessageNotFound)
}
