package postgres

import (
	"context"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var propertySortColumns = map[string]string{
	repository.PropertySortCreatedAt:     "created_at",
	repository.PropertySortPrice:         "price",
	repository.PropertySortAverageRating: "average_rating",
	repository.PropertySortViews:         "views",
	repository.PropertySortBedrooms:      "bedrooms",
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *gorm.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

func (repo *propertyRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("Amenities", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// FindByID retrieves a property with its owner and amenities.
func (repo *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	var propertyM model.PropertyModel
	if err := repo.withRelations(repo.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&propertyM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPropertyNotFound
		}

		return nil, errors.Wrap(err, "failed to find property")
	}

	return toPropertyDomain(&propertyM), nil
}

// FindByIDs returns the existing properties among ids.
func (repo *propertyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Property, error) {
	if len(ids) == 0 {
		return []*entity.Property{}, nil
	}

	var propertyModels []*model.PropertyModel
	if err := repo.withRelations(repo.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&propertyModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find properties")
	}

	return toPropertyDomains(propertyModels), nil
}

// List returns one page of properties matching filter.
func (repo *propertyRepository) List(
	ctx context.Context,
	filter repository.PropertyFilter,
	sort repository.PropertySort,
	page entity.PageRequest,
) ([]*entity.Property, int64, error) {
	query := applyPropertyFilter(repo.db.WithContext(ctx).Model(&model.PropertyModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count properties")
	}

	column, ok := propertySortColumns[sort.Field]
	if !ok {
		column = propertySortColumns[repository.PropertySortCreatedAt]
	}

	var propertyModels []*model.PropertyModel
	if err := repo.withRelations(query).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: sort.Order != entity.SortAsc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&propertyModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list properties")
	}

	return toPropertyDomains(propertyModels), total, nil
}

func applyPropertyFilter(query *gorm.DB, filter repository.PropertyFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Location != "" {
		query = query.Where(`LOWER(location) LIKE ? ESCAPE '\'`, containsPattern(filter.Location))
	}
	if filter.PropertyType != nil {
		query = query.Where("property_type = ?", string(*filter.PropertyType))
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinBedrooms != nil {
		query = query.Where("bedrooms >= ?", *filter.MinBedrooms)
	}
	if filter.MinBathrooms != nil {
		query = query.Where("bathrooms >= ?", *filter.MinBathrooms)
	}
	if amenities := entity.NormalizeAmenities(filter.Amenities); len(amenities) > 0 {
		query = query.Where(
			"id IN (SELECT property_id FROM property_amenities WHERE name IN ? GROUP BY property_id HAVING COUNT(DISTINCT name) = ?)",
			amenities, len(amenities),
		)
	}
	if filter.Near != nil {
		query = applyNearFilter(query, *filter.Near)
	}

	return query
}

// applyNearFilter restricts to the bounding box of the radius, narrowed first by
// the geohash cells covering that box so the index can be used.
func applyNearFilter(query *gorm.DB, near repository.NearFilter) *gorm.DB {
	bound := geo.NewBoundAroundPoint(near.Center, near.RadiusKm*1000)
	query = query.Where(
		"latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
		bound.Min.Lat(), bound.Max.Lat(), bound.Min.Lon(), bound.Max.Lon(),
	)

	cells := geohashCover(near.Center, bound)
	if len(cells) == 0 {
		return query
	}

	return query.Where(geohashCondition(query, cells))
}

func geohashCondition(query *gorm.DB, cells []string) *gorm.DB {
	cond := query.Session(&gorm.Session{NewDB: true}).Where("geohash LIKE ?", cells[0]+"%")
	for _, cell := range cells[1:] {
		cond = cond.Or("geohash LIKE ?", cell+"%")
	}

	return cond
}

// geohashCover returns the center cell and its neighbors at the finest precision
// whose cell is at least as large as bound on both axes, or nil when only the
// coarsest cells would do.
func geohashCover(center orb.Point, bound orb.Bound) []string {
	height := bound.Max.Lat() - bound.Min.Lat()
	width := bound.Max.Lon() - bound.Min.Lon()
	for chars := uint(8); chars >= 2; chars-- {
		hash := geohash.EncodeWithPrecision(center.Lat(), center.Lon(), chars)
		box := geohash.BoundingBox(hash)
		if box.MaxLat-box.MinLat >= height && box.MaxLng-box.MinLng >= width {
			return append([]string{hash}, geohash.Neighbors(hash)...)
		}
	}

	return nil
}

// Create inserts the property and its amenities.
func (repo *propertyRepository) Create(ctx context.Context, property *entity.Property) error {
	propertyM := fromPropertyDomain(property)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(propertyM).Error; err != nil {
			return writeError(err, "property", "failed to create property")
		}

		return replaceAmenities(tx, propertyM.ID, property.Amenities)
	})
	if err != nil {
		return err
	}

	property.ID = propertyM.ID
	property.CreatedAt = propertyM.CreatedAt
	property.UpdatedAt = propertyM.UpdatedAt

	return nil
}

// Update saves every column of the property and replaces its amenities.
func (repo *propertyRepository) Update(ctx context.Context, property *entity.Property) error {
	propertyM := fromPropertyDomain(property)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(propertyM).
			Omit(clause.Associations, "id", "created_at").
			Select("*").
			Updates(propertyM)
		if result.Error != nil {
			return writeError(result.Error, "property", "failed to update property")
		}
		if result.RowsAffected == 0 {
			return repository.ErrPropertyNotFound
		}

		return replaceAmenities(tx, propertyM.ID, property.Amenities)
	})
	if err != nil {
		return err
	}

	property.UpdatedAt = propertyM.UpdatedAt

	return nil
}

func replaceAmenities(tx *gorm.DB, propertyID uuid.UUID, amenities []string) error {
	if err := tx.Where("property_id = ?", propertyID).Delete(&model.PropertyAmenityModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear amenities")
	}

	names := entity.NormalizeAmenities(amenities)
	if len(names) == 0 {
		return nil
	}

	rows := make([]model.PropertyAmenityModel, 0, len(names))
	for i, name := range names {
		rows = append(rows, model.PropertyAmenityModel{PropertyID: propertyID, Name: name, Position: i})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return writeError(err, "property", "failed to save amenities")
	}

	return nil
}

// Delete removes the property and its amenities.
func (repo *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&model.PropertyAmenityModel{}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to delete amenities")
		}

		result := tx.Where("id = ?", id).Delete(&model.PropertyModel{})
		if result.Error != nil {
			return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete property")
		}
		if result.RowsAffected == 0 {
			return repository.ErrPropertyNotFound
		}

		return nil
	})
}

// IncrementViews bumps the counter without touching updated_at.
func (repo *propertyRepository) IncrementViews(ctx context.Context, id uuid.UUID) (int, error) {
	db := repo.db.WithContext(ctx)
	result := db.Model(&model.PropertyModel{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to increment views")
	}
	if result.RowsAffected == 0 {
		return 0, repository.ErrPropertyNotFound
	}

	var views int
	if err := db.Model(&model.PropertyModel{}).
		Where("id = ?", id).
		Pluck("views", &views).Error; err != nil {
		return 0, errors.Wrap(err, "failed to read views")
	}

	return views, nil
}

// UpdateRating writes the derived rating columns only.
func (repo *propertyRepository) UpdateRating(ctx context.Context, id uuid.UUID, summary entity.RatingSummary) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PropertyModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"average_rating": summary.Average,
			"review_count":   summary.Count,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update rating")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPropertyNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toPropertyDomain(data *model.PropertyModel) *entity.Property {
	if data == nil {
		return nil
	}

	amenities := make([]string, 0, len(data.Amenities))
	for _, a := range data.Amenities {
		amenities = append(amenities, a.Name)
	}

	images := []string(data.Images)
	if images == nil {
		images = []string{}
	}

	property := &entity.Property{
		ID:              data.ID,
		OwnerID:         data.OwnerID,
		Title:           data.Title,
		Description:     data.Description,
		Price:           data.Price,
		Location:        data.Location,
		Geohash:         data.Geohash,
		Images:          images,
		Amenities:       amenities,
		IsAvailable:     data.IsAvailable,
		PropertyType:    entity.PropertyType(data.PropertyType),
		Bedrooms:        data.Bedrooms,
		Bathrooms:       data.Bathrooms,
		SquareFeet:      data.SquareFeet,
		AvailableFrom:   data.AvailableFrom,
		AvailableBeds:   data.AvailableBeds,
		Status:          entity.PropertyStatus(data.Status),
		IsApproved:      data.IsApproved,
		IsResubmitted:   data.IsResubmitted,
		RejectionReason: data.RejectionReason,
		Views:           data.Views,
		AverageRating:   data.AverageRating,
		ReviewCount:     data.ReviewCount,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
	if data.Latitude != nil && data.Longitude != nil {
		property.Coordinates = &orb.Point{*data.Longitude, *data.Latitude}
	}
	if data.SharingType != nil {
		sharing := entity.SharingType(*data.SharingType)
		property.SharingType = &sharing
	}
	if data.Owner != nil {
		property.Owner = toUserSummary(data.Owner)
	}

	return property
}

func toPropertyDomains(models []*model.PropertyModel) []*entity.Property {
	properties := make([]*entity.Property, 0, len(models))
	for _, m := range models {
		properties = append(properties, toPropertyDomain(m))
	}

	return properties
}

func fromPropertyDomain(data *entity.Property) *model.PropertyModel {
	if data == nil {
		return nil
	}

	images := data.Images
	if images == nil {
		images = []string{}
	}

	propertyM := &model.PropertyModel{
		ID:              data.ID,
		OwnerID:         data.OwnerID,
		Title:           data.Title,
		Description:     data.Description,
		Price:           data.Price,
		Location:        data.Location,
		Geohash:         data.Geohash,
		Images:          images,
		IsAvailable:     data.IsAvailable,
		PropertyType:    string(data.PropertyType),
		Bedrooms:        data.Bedrooms,
		Bathrooms:       data.Bathrooms,
		SquareFeet:      data.SquareFeet,
		AvailableFrom:   data.AvailableFrom,
		AvailableBeds:   data.AvailableBeds,
		Status:          string(data.Status),
		IsApproved:      data.IsApproved,
		IsResubmitted:   data.IsResubmitted,
		RejectionReason: data.RejectionReason,
		Views:           data.Views,
		AverageRating:   data.AverageRating,
		ReviewCount:     data.ReviewCount,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
	if data.Coordinates != nil {
		lat, lng := data.Coordinates.Lat(), data.Coordinates.Lon()
		propertyM.Latitude = &lat
		propertyM.Longitude = &lng
	}
	if data.SharingType != nil {
		sharing := string(*data.SharingType)
		propertyM.SharingType = &sharing
	}

	return propertyM
}
