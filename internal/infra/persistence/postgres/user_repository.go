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
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a repository.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "email = ?", entity.NormalizeEmail(email))
}

// FindByGoogleID retrieves the user linked to a Google account.
func (repo *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return repo.findOne(ctx, "google_id = ?", googleID)
}

// FindByPhoneNumber retrieves the user registered with a phone number.
func (repo *userRepository) FindByPhoneNumber(ctx context.Context, phone string) (*entity.User, error) {
	return repo.findOne(ctx, "phone_number = ?", phone)
}

func (repo *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where(query, arg).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return toUserDomain(&userM), nil
}

// FindSummaries returns the public projection of each existing id.
func (repo *userRepository) FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.UserSummary, error) {
	result := make(map[uuid.UUID]*entity.UserSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var userModels []*model.UserModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&userModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find user summaries")
	}

	for _, userM := range userModels {
		result[userM.ID] = toUserSummary(userM)
	}

	return result, nil
}

// FindActiveAdmins returns every active admin, oldest first.
func (repo *userRepository) FindActiveAdmins(ctx context.Context) ([]*entity.User, error) {
	var userModels []*model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", string(entity.RoleAdmin), true).
		Order("created_at ASC").
		Find(&userModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active admins")
	}

	return toUserDomains(userModels), nil
}

// List returns a page of users, newest first.
func (repo *userRepository) List(ctx context.Context, filter repository.UserFilter, page entity.PageRequest) ([]*entity.User, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.UserModel{})
	if filter.Role != nil {
		query = query.Where("role = ?", string(*filter.Role))
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count users")
	}

	var userModels []*model.UserModel
	if err := query.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&userModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list users")
	}

	return toUserDomains(userModels), total, nil
}

// Stats counts users by role and activity in a single pass.
func (repo *userRepository) Stats(ctx context.Context) (*entity.UserStats, error) {
	var stats entity.UserStats
	if err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Select(`COUNT(*) AS total_users,
			COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0) AS owners,
			COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0) AS admins,
			COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0) AS regular_users,
			COALESCE(SUM(CASE WHEN is_active = ? THEN 1 ELSE 0 END), 0) AS active_users,
			COALESCE(SUM(CASE WHEN is_active = ? THEN 1 ELSE 0 END), 0) AS inactive_users`,
			string(entity.RoleOwner), string(entity.RoleAdmin), string(entity.RoleUser), true, false).
		Scan(&stats).Error; err != nil {
		return nil, errors.Wrap(err, "failed to compute user stats")
	}

	return &stats, nil
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := repo.checkConflicts(ctx, user); err != nil {
		return err
	}

	userM := fromUserDomain(user)
	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.Duplicate("User")
		}

		return writeError(err, "user", "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies an existing user entity in the database.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	if err := repo.checkConflicts(ctx, user); err != nil {
		return err
	}

	userM := fromUserDomain(user)
	result := repo.db.WithContext(ctx).
		Model(userM).
		Select("*").
		Omit("id", "created_at").
		Updates(userM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.Duplicate("User")
		}

		return writeError(result.Error, "user", "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Delete removes the user row.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// checkConflicts names the unique field another user already holds, so callers get
// "<field> already exists" instead of an anonymous index violation.
func (repo *userRepository) checkConflicts(ctx context.Context, user *entity.User) error {
	email := entity.NormalizeEmail(user.Email)
	query := repo.db.WithContext(ctx).Where("email = ?", email)
	if user.PhoneNumber != nil && *user.PhoneNumber != "" {
		query = query.Or("phone_number = ?", *user.PhoneNumber)
	}
	if user.GoogleID != nil && *user.GoogleID != "" {
		query = query.Or("google_id = ?", *user.GoogleID)
	}

	var existing []*model.UserModel
	if err := repo.db.WithContext(ctx).
		Where(query).
		Where("id <> ?", user.ID).
		Limit(3).
		Find(&existing).Error; err != nil {
		return errors.Wrap(err, "failed to check user conflicts")
	}

	for _, other := range existing {
		switch {
		case other.Email == email:
			return domainerrors.Duplicate("email")
		case user.PhoneNumber != nil && other.PhoneNumber != nil && *other.PhoneNumber == *user.PhoneNumber:
			return domainerrors.Duplicate("phoneNumber")
		case user.GoogleID != nil && other.GoogleID != nil && *other.GoogleID == *user.GoogleID:
			return domainerrors.Duplicate("googleId")
		}
	}

	return nil
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Name:         data.Name,
		Role:         entity.Role(data.Role),
		IsActive:     data.IsActive,
		GoogleID:     data.GoogleID,
		PhoneNumber:  data.PhoneNumber,
		PhotoURL:     data.PhotoURL,
		Bio:          data.Bio,
		IsDarkMode:   data.IsDarkMode,
		Locale:       data.Locale,
		FCMToken:     data.FCMToken,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func toUserDomains(models []*model.UserModel) []*entity.User {
	users := make([]*entity.User, 0, len(models))
	for _, m := range models {
		users = append(users, toUserDomain(m))
	}

	return users
}

func toUserSummary(data *model.UserModel) *entity.UserSummary {
	if data == nil {
		return nil
	}

	return toUserDomain(data).Summary()
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Email:        entity.NormalizeEmail(data.Email),
		PasswordHash: data.PasswordHash,
		Name:         data.Name,
		Role:         string(data.Role),
		IsActive:     data.IsActive,
		GoogleID:     emptyToNil(data.GoogleID),
		PhoneNumber:  emptyToNil(data.PhoneNumber),
		PhotoURL:     data.PhotoURL,
		Bio:          data.Bio,
		IsDarkMode:   data.IsDarkMode,
		Locale:       data.Locale,
		FCMToken:     data.FCMToken,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// emptyToNil keeps blank optional unique columns NULL so they never collide.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}

	return s
}
