package postgres_test

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/infra/persistence/postgres"
	"rentalhub/internal/infra/persistence/sqlite"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.OpenMemory()
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role entity.Role) *entity.User {
	t.Helper()

	user := entity.NewUser(email, "User "+email, role)
	user.PasswordHash = "hash"
	require.NoError(t, postgres.NewUserRepository(db).Create(context.Background(), user))

	return user
}

func createProperty(t *testing.T, db *gorm.DB, ownerID uuid.UUID, mutate func(p *entity.Property)) *entity.Property {
	t.Helper()

	property := entity.NewProperty(ownerID)
	property.Title = "Sunny flat"
	property.Description = "A bright flat close to the park"
	property.Price = 1000
	property.Location = "Berlin Mitte"
	if mutate != nil {
		mutate(property)
	}
	require.NoError(t, postgres.NewPropertyRepository(db).Create(context.Background(), property))

	return property
}

func ptr[T any](v T) *T {
	return &v
}
