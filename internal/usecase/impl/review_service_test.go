package impl

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestReviewService(t *testing.T) (usecase.ReviewUsecase, *testEnv) {
	t.Helper()

	env := newTestEnv(t)
	srv := NewReviewService(ReviewServiceParams{
		TxManager:  env.txManager,
		ReviewRepo: env.reviews,
		Sender:     env.sender,
		Logger:     env.logger,
	})

	return srv, env
}

func reviewInput(propertyID uuid.UUID, rating int) *usecase.CreateReviewInput {
	return &usecase.CreateReviewInput{
		PropertyID: propertyID,
		Rating:     rating,
		ReviewText: "Great place, friendly landlord",
	}
}

func TestReviewService_Create_AggregatesRating(t *testing.T) {
	srv, env := createTestReviewService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	alice := env.createUser(t, "alice@example.com", entity.RoleUser).Actor()
	bob := env.createUser(t, "bob@example.com", entity.RoleUser).Actor()
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	first, err := srv.Create(ctx, alice, reviewInput(property.ID, 5))
	require.NoError(t, err)
	assert.Equal(t, "User alice@example.com", first.UserName)

	_, err = srv.Create(ctx, bob, reviewInput(property.ID, 3))
	require.NoError(t, err)

	stored, err := env.properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stored.AverageRating, 0.001)
	assert.Equal(t, 2, stored.ReviewCount)

	notifications := env.notificationsFor(t, owner.ID)
	require.Len(t, notifications, 2)
	for _, n := range notifications {
		assert.Equal(t, entity.NotificationTypeReview, n.Type)
		assert.Equal(t, "New Review", n.Title)
	}
	assert.Contains(t, []string{notifications[0].Body, notifications[1].Body},
		`User alice@example.com left a 5-star review on "Sunny flat"`)
}

func TestReviewService_Create_Rejections(t *testing.T) {
	srv, env := createTestReviewService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	alice := env.createUser(t, "alice@example.com", entity.RoleUser).Actor()
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	_, err := srv.Create(ctx, alice, reviewInput(property.ID, 4))
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   entity.Actor
		input   *usecase.CreateReviewInput
		wantErr error
		wantMsg string
	}{
		{
			name:    "second review by the same user",
			actor:   alice,
			input:   reviewInput(property.ID, 2),
			wantErr: domainerrors.ErrDuplicateKey,
			wantMsg: "You have already reviewed this property",
		},
		{
			name:    "owner reviewing own property",
			actor:   owner.Actor(),
			input:   reviewInput(property.ID, 5),
			wantErr: domainerrors.ErrBadRequest,
			wantMsg: "You cannot review your own property",
		},
		{
			name:    "missing property",
			actor:   alice,
			input:   reviewInput(uuid.New(), 5),
			wantErr: domainerrors.ErrNotFound,
		},
		{
			name:    "rating out of range",
			actor:   alice,
			input:   reviewInput(property.ID, 6),
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "text too short",
			actor:   alice,
			input:   &usecase.CreateReviewInput{PropertyID: property.ID, Rating: 3, ReviewText: "  short   "},
			wantErr: domainerrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.Create(ctx, tt.actor, tt.input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantMsg != "" {
				var appErr domainerrors.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, tt.wantMsg, appErr.Message())
			}
		})
	}

	stored, err := env.properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ReviewCount)
}

func TestReviewService_UpdateAndDelete_RefreshRating(t *testing.T) {
	srv, env := createTestReviewService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	alice := env.createUser(t, "alice@example.com", entity.RoleUser).Actor()
	bob := env.createUser(t, "bob@example.com", entity.RoleUser).Actor()
	admin := env.createUser(t, "admin@example.com", entity.RoleAdmin).Actor()
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	review, err := srv.Create(ctx, alice, reviewInput(property.ID, 5))
	require.NoError(t, err)
	_, err = srv.Create(ctx, bob, reviewInput(property.ID, 4))
	require.NoError(t, err)

	_, err = srv.Update(ctx, bob, review.ID, &usecase.UpdateReviewInput{Rating: ptr(1)})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	updated, err := srv.Update(ctx, alice, review.ID, &usecase.UpdateReviewInput{Rating: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)

	stored, err := env.properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, stored.AverageRating, 0.001)

	err = srv.Delete(ctx, bob, review.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	require.NoError(t, srv.Delete(ctx, admin, review.ID))

	stored, err = env.properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stored.AverageRating, 0.001)
	assert.Equal(t, 1, stored.ReviewCount)
}

func TestReviewService_Delete_LastReviewResetsRating(t *testing.T) {
	srv, env := createTestReviewService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	alice := env.createUser(t, "alice@example.com", entity.RoleUser).Actor()
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	review, err := srv.Create(ctx, alice, reviewInput(property.ID, 5))
	require.NoError(t, err)
	require.NoError(t, srv.Delete(ctx, alice, review.ID))

	stored, err := env.properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.AverageRating)
	assert.Zero(t, stored.ReviewCount)
}

func TestReviewService_ToggleHelpful(t *testing.T) {
	srv, env := createTestReviewService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	alice := env.createUser(t, "alice@example.com", entity.RoleUser).Actor()
	bob := env.createUser(t, "bob@example.com", entity.RoleUser).Actor()
	property := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	review, err := srv.Create(ctx, alice, reviewInput(property.ID, 5))
	require.NoError(t, err)

	out, err := srv.ToggleHelpful(ctx, bob, review.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.HelpfulOutput{HelpfulCount: 1, IsHelpful: true}, *out)

	out, err = srv.ToggleHelpful(ctx, owner.Actor(), review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, out.HelpfulCount)

	out, err = srv.ToggleHelpful(ctx, bob, review.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.HelpfulOutput{HelpfulCount: 1, IsHelpful: false}, *out)

	_, err = srv.ToggleHelpful(ctx, bob, uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestReviewService_Lists(t *testing.T) {
	srv, env := createTestReviewService(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com", entity.RoleOwner)
	alice := env.createUser(t, "alice@example.com", entity.RoleUser).Actor()
	first := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)
	second := env.createProperty(t, owner.ID, entity.PropertyStatusApproved)

	_, err := srv.Create(ctx, alice, reviewInput(first.ID, 5))
	require.NoError(t, err)
	_, err = srv.Create(ctx, alice, reviewInput(second.ID, 3))
	require.NoError(t, err)

	byProperty, err := srv.ListByProperty(ctx, first.ID, repository.ReviewSort{}, entity.PageRequest{})
	require.NoError(t, err)
	require.Len(t, byProperty.Items, 1)
	assert.Equal(t, 5, byProperty.Items[0].Rating)

	byUser, err := srv.ListByUser(ctx, alice.ID, entity.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, byUser.Items, 2)
	assert.Equal(t, int64(2), byUser.Pagination.Total)
}
