package impl

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFavoriteService(t *testing.T) (usecase.FavoriteUsecase, *testEnv) {
	t.Helper()

	env := newTestEnv(t)
	srv := NewFavoriteService(FavoriteServiceParams{
		TxManager:    env.txManager,
		FavoriteRepo: env.favorites,
		Logger:       env.logger,
	})

	return srv, env
}

func TestFavoriteService_AddAndRemove(t *testing.T) {
	srv, env := createTestFavoriteService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	user := env.createUser(t, "user@example.com", entity.RoleUser).Actor()
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	favorite, err := srv.Add(ctx, user, property.ID)
	require.NoError(t, err)
	require.NotNil(t, favorite.Property)
	assert.Equal(t, property.ID, favorite.Property.ID)

	_, err = srv.Add(ctx, user, property.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateKey))
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Property is already in favorites", appErr.Message())

	_, err = srv.Add(ctx, user, uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	isFavorite, err := srv.IsFavorite(ctx, user, property.ID)
	require.NoError(t, err)
	assert.True(t, isFavorite)

	ids, err := srv.PropertyIDs(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{property.ID}, ids)

	require.NoError(t, srv.Remove(ctx, user, property.ID))

	err = srv.Remove(ctx, user, property.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	ids, err = srv.PropertyIDs(ctx, user)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestFavoriteService_Toggle(t *testing.T) {
	srv, env := createTestFavoriteService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	user := env.createUser(t, "user@example.com", entity.RoleUser).Actor()
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	favorited, err := srv.Toggle(ctx, user, property.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	favorited, err = srv.Toggle(ctx, user, property.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	_, err = srv.Toggle(ctx, user, uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestFavoriteService_List_SkipsDeletedProperties(t *testing.T) {
	srv, env := createTestFavoriteService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	user := env.createUser(t, "user@example.com", entity.RoleUser).Actor()
	kept := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)
	removed := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	_, err := srv.Add(ctx, user, kept.ID)
	require.NoError(t, err)
	_, err = srv.Add(ctx, user, removed.ID)
	require.NoError(t, err)
	require.NoError(t, env.properties.Delete(ctx, removed.ID))

	page, err := srv.List(ctx, user, entity.PageRequest{})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, kept.ID, page.Items[0].PropertyID)
}
