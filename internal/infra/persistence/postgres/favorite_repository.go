package postgres

import (
	"context"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *gorm.DB) repository.FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (repo *favoriteRepository) Create(ctx context.Context, favorite *entity.Favorite) error {
	favoriteM := &model.FavoriteModel{
		ID:         favorite.ID,
		UserID:     favorite.UserID,
		PropertyID: favorite.PropertyID,
	}
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(favoriteM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrFavoriteExists
		}

		return writeError(err, "favorite", "failed to create favorite")
	}

	favorite.ID = favoriteM.ID
	favorite.CreatedAt = favoriteM.CreatedAt
	favorite.UpdatedAt = favoriteM.UpdatedAt

	return nil
}

func (repo *favoriteRepository) Delete(ctx context.Context, userID, propertyID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&model.FavoriteModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete favorite")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFavoriteNotFound
	}

	return nil
}

func (repo *favoriteRepository) Exists(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.FavoriteModel{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check favorite")
	}

	return count > 0, nil
}

// List returns a page of favorites with the property, owner and amenities populated.
func (repo *favoriteRepository) List(ctx context.Context, userID uuid.UUID, page entity.PageRequest) ([]*entity.Favorite, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.FavoriteModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count favorites")
	}

	var favoriteModels []*model.FavoriteModel
	if err := query.
		Preload("Property").
		Preload("Property.Owner").
		Preload("Property.Amenities", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&favoriteModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list favorites")
	}

	favorites := make([]*entity.Favorite, 0, len(favoriteModels))
	for _, m := range favoriteModels {
		favorites = append(favorites, &entity.Favorite{
			ID:         m.ID,
			UserID:     m.UserID,
			PropertyID: m.PropertyID,
			Property:   toPropertyDomain(m.Property),
			CreatedAt:  m.CreatedAt,
			UpdatedAt:  m.UpdatedAt,
		})
	}

	return favorites, total, nil
}

func (repo *favoriteRepository) PropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := repo.db.WithContext(ctx).
		Model(&model.FavoriteModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("property_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list favorite ids")
	}

	return ids, nil
}
