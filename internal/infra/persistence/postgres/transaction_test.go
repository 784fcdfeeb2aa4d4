package postgres_test

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionManager_Execute(t *testing.T) {
	db := newTestDB(t)
	txManager := postgres.NewTransactionManager(db)
	users := postgres.NewUserRepository(db)
	ctx := context.Background()

	errBoom := errors.New("boom")
	err := txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.NewUserRepository().Create(ctx, entity.NewUser("rolled@example.com", "Rolled", entity.RoleUser)); err != nil {
			return err
		}

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = users.FindByEmail(ctx, "rolled@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	err = txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		return factory.NewUserRepository().Create(ctx, entity.NewUser("kept@example.com", "Kept", entity.RoleUser))
	})
	require.NoError(t, err)

	_, err = users.FindByEmail(ctx, "kept@example.com")
	assert.NoError(t, err)
}
