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
	"gorm.io/plugin/dbresolver"
)

var reviewSortColumns = map[string]string{
	repository.ReviewSortCreatedAt:    "created_at",
	repository.ReviewSortRating:       "rating",
	repository.ReviewSortHelpfulCount: "helpful_count",
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func withHelpfulVotes(db *gorm.DB) *gorm.DB {
	return db.Preload("HelpfulVotes", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (repo *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	return repo.findOne(ctx, repo.db.WithContext(ctx).Where("id = ?", id))
}

func (repo *reviewRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*entity.Review, error) {
	return repo.findOne(ctx, repo.db.WithContext(ctx).Where("user_id = ? AND property_id = ?", userID, propertyID))
}

func (repo *reviewRepository) findOne(_ context.Context, query *gorm.DB) (*entity.Review, error) {
	var reviewM model.ReviewModel
	if err := withHelpfulVotes(query).First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review")
	}

	return toReviewDomain(&reviewM), nil
}

// ListByProperty returns a sorted page of a property's reviews.
func (repo *reviewRepository) ListByProperty(
	ctx context.Context,
	propertyID uuid.UUID,
	sort repository.ReviewSort,
	page entity.PageRequest,
) ([]*entity.Review, int64, error) {
	column, ok := reviewSortColumns[sort.Field]
	if !ok {
		column = reviewSortColumns[repository.ReviewSortCreatedAt]
	}
	order := clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: sort.Order != entity.SortAsc}

	return repo.list(ctx, repo.db.WithContext(ctx).Where("property_id = ?", propertyID), order, page)
}

// ListByUser returns the user's reviews, newest first.
func (repo *reviewRepository) ListByUser(ctx context.Context, userID uuid.UUID, page entity.PageRequest) ([]*entity.Review, int64, error) {
	order := clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}

	return repo.list(ctx, repo.db.WithContext(ctx).Where("user_id = ?", userID), order, page)
}

func (repo *reviewRepository) list(_ context.Context, query *gorm.DB, order clause.OrderByColumn, page entity.PageRequest) ([]*entity.Review, int64, error) {
	query = query.Model(&model.ReviewModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count reviews")
	}

	var reviewModels []*model.ReviewModel
	if err := withHelpfulVotes(query).
		Order(order).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&reviewModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list reviews")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, m := range reviewModels {
		reviews = append(reviews, toReviewDomain(m))
	}

	return reviews, total, nil
}

// Create inserts a review. A second review by the same user on the same property yields ErrReviewExists.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrReviewExists
		}

		return writeError(err, "review", "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// Update saves the editable columns. Helpful votes are managed by SetHelpful.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)
	result := repo.db.WithContext(ctx).
		Model(reviewM).
		Select("rating", "review_text", "user_name", "user_photo_url").
		Updates(reviewM)
	if result.Error != nil {
		return writeError(result.Error, "review", "failed to update review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// Delete removes the review and its votes.
func (repo *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&model.ReviewHelpfulVoteModel{}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to delete review votes")
		}

		result := tx.Where("id = ?", id).Delete(&model.ReviewModel{})
		if result.Error != nil {
			return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete review")
		}
		if result.RowsAffected == 0 {
			return repository.ErrReviewNotFound
		}

		return nil
	})
}

// RatingSummary reads from the primary so a just-written review is included.
func (repo *reviewRepository) RatingSummary(ctx context.Context, propertyID uuid.UUID) (entity.RatingSummary, error) {
	var row struct {
		Total float64
		Count int
	}
	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Model(&model.ReviewModel{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
		Where("property_id = ?", propertyID).
		Scan(&row).Error; err != nil {
		return entity.RatingSummary{}, errors.Wrap(err, "failed to aggregate ratings")
	}

	return entity.ComputeRating(row.Total, row.Count), nil
}

// SetHelpful records or withdraws a vote and stores the recounted total.
func (repo *reviewRepository) SetHelpful(ctx context.Context, reviewID, userID uuid.UUID, helpful bool) (int, error) {
	var count int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vote := &model.ReviewHelpfulVoteModel{ReviewID: reviewID, UserID: userID}
		if helpful {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(vote).Error; err != nil {
				return writeError(err, "review", "failed to record helpful vote")
			}
		} else {
			if err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).
				Delete(&model.ReviewHelpfulVoteModel{}).Error; err != nil {
				return domainerrors.NewDatabaseExecuteError(err, "failed to withdraw helpful vote")
			}
		}

		if err := tx.Model(&model.ReviewHelpfulVoteModel{}).Where("review_id = ?", reviewID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to count helpful votes")
		}

		result := tx.Model(&model.ReviewModel{}).
			Where("id = ?", reviewID).
			UpdateColumn("helpful_count", count)
		if result.Error != nil {
			return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update helpful count")
		}
		if result.RowsAffected == 0 {
			return repository.ErrReviewNotFound
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// --- Mapper Functions ---

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	helpfulBy := make([]uuid.UUID, 0, len(data.HelpfulVotes))
	for _, v := range data.HelpfulVotes {
		helpfulBy = append(helpfulBy, v.UserID)
	}

	return &entity.Review{
		ID:           data.ID,
		PropertyID:   data.PropertyID,
		UserID:       data.UserID,
		UserName:     data.UserName,
		UserPhotoURL: data.UserPhotoURL,
		Rating:       data.Rating,
		ReviewText:   data.ReviewText,
		HelpfulBy:    helpfulBy,
		HelpfulCount: data.HelpfulCount,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:           data.ID,
		PropertyID:   data.PropertyID,
		UserID:       data.UserID,
		UserName:     data.UserName,
		UserPhotoURL: data.UserPhotoURL,
		Rating:       data.Rating,
		ReviewText:   data.ReviewText,
		HelpfulCount: data.HelpfulCount,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
