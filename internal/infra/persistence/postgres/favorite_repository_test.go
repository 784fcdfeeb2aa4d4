package postgres_test

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteRepository(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewFavoriteRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", entity.RoleOwner)
	user := createUser(t, db, "user@example.com", entity.RoleUser)
	first := createProperty(t, db, owner.ID, func(p *entity.Property) { p.Amenities = []string{"wifi"} })
	second := createProperty(t, db, owner.ID, nil)

	require.NoError(t, repo.Create(ctx, &entity.Favorite{UserID: user.ID, PropertyID: first.ID}))
	require.NoError(t, repo.Create(ctx, &entity.Favorite{UserID: user.ID, PropertyID: second.ID}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Favorite{UserID: user.ID, PropertyID: first.ID}), repository.ErrFavoriteExists)

	exists, err := repo.Exists(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	favorites, total, err := repo.List(ctx, user.ID, entity.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, favorites, 2)
	for _, f := range favorites {
		require.NotNil(t, f.Property)
		require.NotNil(t, f.Property.Owner)
		assert.Equal(t, owner.ID, f.Property.Owner.ID)
	}

	ids, err := repo.PropertyIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)

	require.NoError(t, repo.Delete(ctx, user.ID, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID, first.ID), repository.ErrFavoriteNotFound)

	exists, err = repo.Exists(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
