package postgres_test

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/postgres"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	user := entity.NewUser("Alice@Example.com", "Alice", entity.RoleOwner)
	user.PhoneNumber = ptr("+4912345")
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	found, err := repo.FindByEmail(ctx, " ALICE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "alice@example.com", found.Email)
	assert.Equal(t, entity.RoleOwner, found.Role)

	byPhone, err := repo.FindByPhoneNumber(ctx, "+4912345")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_DuplicateFields(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	first := entity.NewUser("bob@example.com", "Bob", entity.RoleUser)
	first.PhoneNumber = ptr("555")
	first.GoogleID = ptr("g-1")
	require.NoError(t, repo.Create(ctx, first))

	tests := []struct {
		name    string
		mutate  func(u *entity.User)
		message string
	}{
		{
			name:    "email",
			mutate:  func(u *entity.User) { u.Email = "BOB@example.com" },
			message: "email already exists",
		},
		{
			name:    "phone",
			mutate:  func(u *entity.User) { u.PhoneNumber = ptr("555") },
			message: "phoneNumber already exists",
		},
		{
			name:    "google id",
			mutate:  func(u *entity.User) { u.GoogleID = ptr("g-1") },
			message: "googleId already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := entity.NewUser("other@example.com", "Other", entity.RoleUser)
			tt.mutate(user)

			err := repo.Create(ctx, user)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrDuplicateKey))

			var appErr domainerrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.message, appErr.Message())
		})
	}
}

func TestUserRepository_UpdateKeepsOwnValues(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "carol@example.com", entity.RoleUser)
	user.Name = "Carol Updated"
	user.IsActive = false
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol Updated", found.Name)
	assert.False(t, found.IsActive)

	ghost := entity.NewUser("ghost@example.com", "Ghost", entity.RoleUser)
	ghost.ID = uuid.New()
	assert.ErrorIs(t, repo.Update(ctx, ghost), repository.ErrUserNotFound)
}

func TestUserRepository_ListSearchAndStats(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	createUser(t, db, "admin@example.com", entity.RoleAdmin)
	createUser(t, db, "owner_1@example.com", entity.RoleOwner)
	inactive := createUser(t, db, "someone@example.com", entity.RoleUser)
	inactive.IsActive = false
	require.NoError(t, repo.Update(ctx, inactive))

	owners := entity.RoleOwner
	users, total, err := repo.List(ctx, repository.UserFilter{Role: &owners}, entity.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "owner_1@example.com", users[0].Email)

	// "_" is matched literally, not as a wildcard.
	users, total, err = repo.List(ctx, repository.UserFilter{Search: "ER_"}, entity.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, users, 1)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStats{
		TotalUsers:    3,
		Owners:        1,
		Admins:        1,
		RegularUsers:  1,
		ActiveUsers:   2,
		InactiveUsers: 1,
	}, *stats)

	admins, err := repo.FindActiveAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@example.com", admins[0].Email)

	summaries, err := repo.FindSummaries(ctx, []uuid.UUID{inactive.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, inactive.Name, summaries[inactive.ID].Name)
}
