package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/validation"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var errAdminOnly = domainerrors.ErrForbidden

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *userService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrUserNotFound, "User", "failed to find user")
	}

	return user, nil
}

func (srv *userService) ListUsers(ctx context.Context, actor entity.Actor, input *usecase.ListUsersInput) (*entity.Page[*entity.User], error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}

	page := defaultPage(input.Page, constants.DefaultLongPageLimit)
	users, total, err := srv.userRepo.List(ctx, repository.UserFilter{
		Role:   input.Role,
		Search: strings.TrimSpace(input.Search),
	}, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return pageOf(users, total, page), nil
}

func (srv *userService) Stats(ctx context.Context, actor entity.Actor) (*entity.UserStats, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}

	stats, err := srv.userRepo.Stats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user stats")
	}

	return stats, nil
}

// UpdateUser applies an admin edit. An admin cannot deactivate themselves through it either.
func (srv *userService) UpdateUser(ctx context.Context, actor entity.Actor, id uuid.UUID, input *usecase.UpdateUserInput) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}

	return srv.mutate(ctx, id, func(user *entity.User) error {
		if input.IsActive != nil && !*input.IsActive && user.ID == actor.ID {
			return domainerrors.BadRequest("Cannot deactivate your own account")
		}
		if input.Role != nil && !input.Role.IsValid() {
			return validation.Fail("role", "role must be one of: admin owner user")
		}

		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if input.Role != nil {
			user.Role = *input.Role
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}
		if input.PhoneNumber != nil {
			user.PhoneNumber = optionalString(*input.PhoneNumber)
		}
		if input.Bio != nil {
			user.Bio = strings.TrimSpace(*input.Bio)
		}

		return nil
	})
}

// DeleteUser hard-deletes an account. Records that reference it are left in place.
func (srv *userService) DeleteUser(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return errAdminOnly
	}
	if actor.ID == id {
		return domainerrors.BadRequest("Cannot delete your own account")
	}

	if err := srv.userRepo.Delete(ctx, id); err != nil {
		return notFound(err, repository.ErrUserNotFound, "User", "failed to delete user")
	}
	srv.log(ctx).Info("User deleted", slog.String("userID", id.String()), slog.String("by", actor.ID.String()))

	return nil
}

func (srv *userService) ToggleActive(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}
	if actor.ID == id {
		return nil, domainerrors.BadRequest("Cannot deactivate your own account")
	}

	user, err := srv.mutate(ctx, id, func(user *entity.User) error {
		user.IsActive = !user.IsActive

		return nil
	})
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Info("User activation toggled", slog.String("userID", id.String()), slog.Bool("isActive", user.IsActive))

	return user, nil
}

func (srv *userService) mutate(ctx context.Context, id uuid.UUID, apply func(*entity.User) error) (*entity.User, error) {
	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		var err error
		user, err = userRepo.FindByID(ctx, id)
		if err != nil {
			return notFound(err, repository.ErrUserNotFound, "User", "failed to find user")
		}
		if err := apply(user); err != nil {
			return err
		}
		if err := validation.Struct(user); err != nil {
			return err
		}

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
