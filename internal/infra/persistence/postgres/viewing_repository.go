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

type viewingRepository struct {
	db *gorm.DB
}

// NewViewingRepository creates a new viewing repository.
func NewViewingRepository(db *gorm.DB) repository.ViewingRepository {
	return &viewingRepository{db: db}
}

func withViewingRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Property").Preload("User").Preload("Owner")
}

func (repo *viewingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Viewing, error) {
	var viewingM model.ViewingModel
	if err := withViewingRelations(repo.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&viewingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrViewingNotFound
		}

		return nil, errors.Wrap(err, "failed to find viewing")
	}

	return toViewingDomain(&viewingM), nil
}

// List returns a page of matching viewings, latest date first.
func (repo *viewingRepository) List(ctx context.Context, filter repository.ViewingFilter, page entity.PageRequest) ([]*entity.Viewing, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ViewingModel{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count viewings")
	}

	var viewingModels []*model.ViewingModel
	if err := withViewingRelations(query).
		Order("date DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&viewingModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list viewings")
	}

	viewings := make([]*entity.Viewing, 0, len(viewingModels))
	for _, m := range viewingModels {
		viewings = append(viewings, toViewingDomain(m))
	}

	return viewings, total, nil
}

// HasPending reports whether the user already has a pending request for the property.
func (repo *viewingRepository) HasPending(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ViewingModel{}).
		Where("user_id = ? AND property_id = ? AND status = ?", userID, propertyID, string(entity.ViewingStatusPending)).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check pending viewings")
	}

	return count > 0, nil
}

func (repo *viewingRepository) Create(ctx context.Context, viewing *entity.Viewing) error {
	viewingM := fromViewingDomain(viewing)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(viewingM).Error; err != nil {
		return writeError(err, "viewing", "failed to create viewing")
	}

	viewing.ID = viewingM.ID
	viewing.CreatedAt = viewingM.CreatedAt
	viewing.UpdatedAt = viewingM.UpdatedAt

	return nil
}

// Update saves the mutable columns of a viewing.
func (repo *viewingRepository) Update(ctx context.Context, viewing *entity.Viewing) error {
	viewingM := fromViewingDomain(viewing)
	result := repo.db.WithContext(ctx).
		Model(viewingM).
		Select("status", "cancel_reason", "date", "note").
		Updates(viewingM)
	if result.Error != nil {
		return writeError(result.Error, "viewing", "failed to update viewing")
	}
	if result.RowsAffected == 0 {
		return repository.ErrViewingNotFound
	}

	viewing.UpdatedAt = viewingM.UpdatedAt

	return nil
}

func (repo *viewingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ViewingModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete viewing")
	}
	if result.RowsAffected == 0 {
		return repository.ErrViewingNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toViewingDomain(data *model.ViewingModel) *entity.Viewing {
	if data == nil {
		return nil
	}

	viewing := &entity.Viewing{
		ID:           data.ID,
		PropertyID:   data.PropertyID,
		UserID:       data.UserID,
		OwnerID:      data.OwnerID,
		Date:         data.Date,
		Status:       entity.ViewingStatus(data.Status),
		Note:         data.Note,
		CancelReason: data.CancelReason,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
	if data.Property != nil {
		viewing.Property = toPropertyDomain(data.Property)
	}
	if data.User != nil {
		viewing.User = toUserSummary(data.User)
	}
	if data.Owner != nil {
		viewing.Owner = toUserSummary(data.Owner)
	}

	return viewing
}

func fromViewingDomain(data *entity.Viewing) *model.ViewingModel {
	return &model.ViewingModel{
		ID:           data.ID,
		PropertyID:   data.PropertyID,
		UserID:       data.UserID,
		OwnerID:      data.OwnerID,
		Date:         data.Date,
		Status:       string(data.Status),
		Note:         data.Note,
		CancelReason: data.CancelReason,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
