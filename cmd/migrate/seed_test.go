package main

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/postgres"
	"rentalhub/internal/infra/persistence/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_SeedIsIdempotent(t *testing.T) {
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	ctx := context.Background()

	first, err := newSeeder(db, "secret123").Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(seedUsers), first.Users)
	assert.Equal(t, len(seedProperties), first.Properties)

	second, err := newSeeder(db, "secret123").Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Users)
	assert.Zero(t, second.Properties)

	admins, err := postgres.NewUserRepository(db).FindActiveAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.True(t, admins[0].HasPassword())

	approved := entity.PropertyStatusApproved
	properties, total, err := postgres.NewPropertyRepository(db).List(ctx,
		repository.PropertyFilter{Status: &approved}, repository.PropertySort{}, entity.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, p := range properties {
		assert.True(t, p.IsApproved)
		assert.NotEmpty(t, p.Geohash)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd(nil)

	for _, name := range []string{"up", "seed"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("sqlite"))
}
