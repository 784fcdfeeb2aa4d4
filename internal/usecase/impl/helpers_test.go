package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"rentalhub/config"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/infra/auth"
	"rentalhub/internal/infra/persistence/postgres"
	"rentalhub/internal/infra/persistence/sqlite"
	mockSvc "rentalhub/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:      bcrypt.MinCost,
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
		QRCode: &config.QRCodeConfig{
			Size:    128,
			BaseURL: "https://rentalhub.test/properties",
		},
	}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

// testEnv wires the real repositories over a private in-memory database.
type testEnv struct {
	db            *gorm.DB
	cfg           *config.Config
	logger        *slog.Logger
	txManager     repository.TransactionManager
	users         repository.UserRepository
	properties    repository.PropertyRepository
	reviews       repository.ReviewRepository
	favorites     repository.FavoriteRepository
	viewings      repository.ViewingRepository
	chats         repository.ChatRepository
	messages      repository.MessageRepository
	notifications repository.NotificationRepository
	push          *mockSvc.MockPushNotificationService
	sender        service.NotificationSender
	adminNotifier service.AdminNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		db:            db,
		cfg:           newTestConfig(),
		logger:        newDiscardLogger(),
		txManager:     postgres.NewTransactionManager(db),
		users:         postgres.NewUserRepository(db),
		properties:    postgres.NewPropertyRepository(db),
		reviews:       postgres.NewReviewRepository(db),
		favorites:     postgres.NewFavoriteRepository(db),
		viewings:      postgres.NewViewingRepository(db),
		chats:         postgres.NewChatRepository(db),
		messages:      postgres.NewMessageRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		push:          mockSvc.NewMockPushNotificationService(t),
	}
	env.sender = NewNotificationSender(NotificationSenderParams{
		NotificationRepo: env.notifications,
		UserRepo:         env.users,
		Push:             env.push,
		Logger:           env.logger,
	})
	env.adminNotifier = NewSyncAdminNotifier(env.users, env.sender, env.logger)

	return env
}

func (env *testEnv) hasher() service.PasswordHasher {
	return auth.NewBcryptHasher(env.cfg)
}

func (env *testEnv) createUser(t *testing.T, email string, role entity.Role) *entity.User {
	t.Helper()

	user := entity.NewUser(email, "User "+email, role)
	hash, err := env.hasher().Hash("secret1")
	require.NoError(t, err)
	user.PasswordHash = hash
	require.NoError(t, env.users.Create(context.Background(), user))

	return user
}

func (env *testEnv) createProperty(t *testing.T, ownerID uuid.UUID, status entity.PropertyStatus) *entity.Property {
	t.Helper()

	property := entity.NewProperty(ownerID)
	property.Title = "Sunny flat"
	property.Description = "A bright flat close to the park"
	property.Price = 1000
	property.Location = "Berlin Mitte"
	property.Status = status
	property.IsApproved = status == entity.PropertyStatusApproved
	require.NoError(t, env.properties.Create(context.Background(), property))

	return property
}

// notificationsFor returns every notification addressed to userID, newest first.
func (env *testEnv) notificationsFor(t *testing.T, userID uuid.UUID) []*entity.Notification {
	t.Helper()

	notifications, _, err := env.notifications.List(context.Background(), userID, entity.NewPageRequest(1, 100, 100, 100))
	require.NoError(t, err)

	return notifications
}

func ptr[T any](v T) *T {
	return &v
}
