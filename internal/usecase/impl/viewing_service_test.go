package impl

import (
	"context"
	"testing"
	"time"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestViewingService(t *testing.T) (usecase.ViewingUsecase, *testEnv) {
	t.Helper()

	env := newTestEnv(t)
	srv := NewViewingService(ViewingServiceParams{
		TxManager:   env.txManager,
		ViewingRepo: env.viewings,
		Sender:      env.sender,
		Logger:      env.logger,
	})

	return srv, env
}

func viewingInput(propertyID uuid.UUID) *usecase.CreateViewingInput {
	return &usecase.CreateViewingInput{
		PropertyID: propertyID,
		Date:       time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second),
		Note:       ptr(" Evenings preferred "),
	}
}

func TestViewingService_Create(t *testing.T) {
	srv, env := createTestViewingService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	user := env.createUser(t, "user@example.com", entity.RoleUser).Actor()
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	viewing, err := srv.Create(ctx, user, viewingInput(property.ID))

	require.NoError(t, err)
	assert.Equal(t, entity.ViewingStatusPending, viewing.Status)
	assert.Equal(t, owner.ID, viewing.OwnerID)
	assert.Equal(t, user.ID, viewing.UserID)
	require.NotNil(t, viewing.Note)
	assert.Equal(t, "Evenings preferred", *viewing.Note)

	notifications := env.notificationsFor(t, owner.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationTypeViewing, notifications[0].Type)
	assert.Equal(t, "New Viewing Request", notifications[0].Title)
	assert.Equal(t, `User user@example.com has requested a viewing for "Sunny flat".`, notifications[0].Body)
}

func TestViewingService_Create_Rejections(t *testing.T) {
	srv, env := createTestViewingService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	user := env.createUser(t, "user@example.com", entity.RoleUser).Actor()
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	_, err := srv.Create(ctx, user, viewingInput(property.ID))
	require.NoError(t, err)

	var appErr domainerrors.AppError

	_, err = srv.Create(ctx, user, viewingInput(property.ID))
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "You already have a pending viewing request for this property", appErr.Message())

	_, err = srv.Create(ctx, owner.Actor(), viewingInput(property.ID))
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "You cannot request a viewing for your own property", appErr.Message())

	_, err = srv.Create(ctx, user, viewingInput(uuid.New()))
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestViewingService_UpdateStatus(t *testing.T) {
	srv, env := createTestViewingService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	user := env.createUser(t, "user@example.com", entity.RoleUser)
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	viewing, err := srv.Create(ctx, user.Actor(), viewingInput(property.ID))
	require.NoError(t, err)

	_, err = srv.UpdateStatus(ctx, user.Actor(), viewing.ID, &usecase.UpdateViewingStatusInput{Status: entity.ViewingStatusConfirmed})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden), "only the owner confirms")

	confirmed, err := srv.UpdateStatus(ctx, owner.Actor(), viewing.ID, &usecase.UpdateViewingStatusInput{Status: entity.ViewingStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, entity.ViewingStatusConfirmed, confirmed.Status)

	_, err = srv.UpdateStatus(ctx, user.Actor(), viewing.ID, &usecase.UpdateViewingStatusInput{Status: entity.ViewingStatusCancelled})
	assert.True(t, errors.Is(err, domainerrors.ErrBadRequest), "a confirmed viewing is final")

	notifications := env.notificationsFor(t, user.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Viewing Confirmed", notifications[0].Title)
	assert.Equal(t, `Your viewing request for "Sunny flat" has been confirmed.`, notifications[0].Body)
}

func TestViewingService_Cancel_NotifiesOwner(t *testing.T) {
	srv, env := createTestViewingService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	user := env.createUser(t, "user@example.com", entity.RoleUser)
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	viewing, err := srv.Create(ctx, user.Actor(), viewingInput(property.ID))
	require.NoError(t, err)

	cancelled, err := srv.UpdateStatus(ctx, user.Actor(), viewing.ID, &usecase.UpdateViewingStatusInput{
		Status:       entity.ViewingStatusCancelled,
		CancelReason: ptr("Found another flat"),
	})
	require.NoError(t, err)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "Found another flat", *cancelled.CancelReason)

	titles := make([]string, 0)
	for _, n := range env.notificationsFor(t, owner.ID) {
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{"New Viewing Request", "Viewing Cancelled"}, titles)

	again, err := srv.Create(ctx, user.Actor(), viewingInput(property.ID))
	require.NoError(t, err, "a cancelled request no longer blocks a new one")
	assert.NotEqual(t, viewing.ID, again.ID)
}

func TestViewingService_ListsAndDelete(t *testing.T) {
	srv, env := createTestViewingService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	user := env.createUser(t, "user@example.com", entity.RoleUser)
	other := env.createUser(t, "other@example.com", entity.RoleUser)
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	viewing, err := srv.Create(ctx, user.Actor(), viewingInput(property.ID))
	require.NoError(t, err)

	requested, err := srv.ListRequested(ctx, user.Actor(), nil, entity.PageRequest{})
	require.NoError(t, err)
	require.Len(t, requested.Items, 1)

	owned, err := srv.ListOwned(ctx, owner.Actor(), ptr(entity.ViewingStatusPending), entity.PageRequest{})
	require.NoError(t, err)
	require.Len(t, owned.Items, 1)
	assert.Equal(t, viewing.ID, owned.Items[0].ID)

	_, err = srv.ListOwned(ctx, user.Actor(), nil, entity.PageRequest{})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	err = srv.Delete(ctx, other.Actor(), viewing.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	require.NoError(t, srv.Delete(ctx, user.Actor(), viewing.ID))

	err = srv.Delete(ctx, user.Actor(), viewing.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}
