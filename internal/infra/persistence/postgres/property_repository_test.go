package postgres_test

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/postgres"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyRepository_CreateFindUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewPropertyRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", entity.RoleOwner)
	property := createProperty(t, db, owner.ID, func(p *entity.Property) {
		p.Images = []string{"https://img/1.jpg"}
		p.Amenities = []string{"wifi", "parking", "wifi"}
		p.SetCoordinates(&orb.Point{13.405, 52.52})
	})

	found, err := repo.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"wifi", "parking"}, found.Amenities)
	assert.Equal(t, []string{"https://img/1.jpg"}, found.Images)
	require.NotNil(t, found.Coordinates)
	assert.InDelta(t, 52.52, found.Coordinates.Lat(), 1e-9)
	assert.Equal(t, property.Geohash, found.Geohash)
	require.NotNil(t, found.Owner)
	assert.Equal(t, owner.Name, found.Owner.Name)
	assert.Equal(t, entity.PropertyStatusPending, found.Status)

	found.Amenities = []string{"garden"}
	found.Title = "Renamed flat"
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed flat", updated.Title)
	assert.Equal(t, []string{"garden"}, updated.Amenities)

	require.NoError(t, repo.Delete(ctx, property.ID))
	_, err = repo.FindByID(ctx, property.ID)
	assert.ErrorIs(t, err, repository.ErrPropertyNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, property.ID), repository.ErrPropertyNotFound)
}

func TestPropertyRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewPropertyRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", entity.RoleOwner)
	cheap := createProperty(t, db, owner.ID, func(p *entity.Property) {
		p.Price = 500
		p.Location = "Kreuzberg, Berlin"
		p.Amenities = []string{"wifi", "parking"}
		p.Bedrooms = 2
	})
	createProperty(t, db, owner.ID, func(p *entity.Property) {
		p.Price = 1500
		p.Location = "Hamburg"
		p.Amenities = []string{"wifi"}
		p.PropertyType = entity.PropertyTypeHouse
	})
	approved := createProperty(t, db, owner.ID, func(p *entity.Property) {
		p.Price = 900
		p.Location = "berlin"
	})
	require.NoError(t, approved.Approve())
	require.NoError(t, repo.Update(ctx, approved))

	page := entity.PageRequest{Page: 1, Limit: 10}
	byPriceAsc := repository.PropertySort{Field: repository.PropertySortPrice, Order: entity.SortAsc}

	tests := []struct {
		name    string
		filter  repository.PropertyFilter
		wantIDs []uuid.UUID
	}{
		{
			name:    "location substring is case-insensitive",
			filter:  repository.PropertyFilter{Location: "BERLIN"},
			wantIDs: []uuid.UUID{cheap.ID, approved.ID},
		},
		{
			name:    "all amenities must match",
			filter:  repository.PropertyFilter{Amenities: []string{"wifi", "parking"}},
			wantIDs: []uuid.UUID{cheap.ID},
		},
		{
			name:    "price range",
			filter:  repository.PropertyFilter{MinPrice: ptr(600.0), MaxPrice: ptr(1000.0)},
			wantIDs: []uuid.UUID{approved.ID},
		},
		{
			name:    "status",
			filter:  repository.PropertyFilter{Status: ptr(entity.PropertyStatusApproved)},
			wantIDs: []uuid.UUID{approved.ID},
		},
		{
			name:    "bedrooms",
			filter:  repository.PropertyFilter{MinBedrooms: ptr(2)},
			wantIDs: []uuid.UUID{cheap.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			properties, total, err := repo.List(ctx, tt.filter, byPriceAsc, page)
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.wantIDs), total)

			ids := make([]uuid.UUID, 0, len(properties))
			for _, p := range properties {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	properties, total, err := repo.List(ctx, repository.PropertyFilter{}, byPriceAsc, entity.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, properties, 1)
	assert.InDelta(t, 1500, properties[0].Price, 0)
}

func TestPropertyRepository_ListNear(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewPropertyRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", entity.RoleOwner)
	mitte := createProperty(t, db, owner.ID, func(p *entity.Property) {
		p.SetCoordinates(&orb.Point{13.405, 52.52})
	})
	createProperty(t, db, owner.ID, func(p *entity.Property) {
		p.SetCoordinates(&orb.Point{9.993, 53.551})
	})
	createProperty(t, db, owner.ID, nil)

	near := &repository.NearFilter{Center: orb.Point{13.41, 52.515}, RadiusKm: 5}
	properties, total, err := repo.List(ctx, repository.PropertyFilter{Near: near}, repository.PropertySort{}, entity.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, properties, 1)
	assert.Equal(t, mitte.ID, properties[0].ID)
}

func TestPropertyRepository_CountersAndRating(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewPropertyRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", entity.RoleOwner)
	property := createProperty(t, db, owner.ID, nil)

	views, err := repo.IncrementViews(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, views)
	views, err = repo.IncrementViews(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, views)

	_, err = repo.IncrementViews(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrPropertyNotFound)

	require.NoError(t, repo.UpdateRating(ctx, property.ID, entity.RatingSummary{Average: 4.5, Count: 2}))
	found, err := repo.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, found.AverageRating, 0)
	assert.Equal(t, 2, found.ReviewCount)
	assert.Equal(t, 2, found.Views)
}
