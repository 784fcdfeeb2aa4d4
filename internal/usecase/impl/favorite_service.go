package impl

import (
	"context"
	"log/slog"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// favoriteService implements the FavoriteUsecase interface.
type favoriteService struct {
	txManager    repository.TransactionManager
	favoriteRepo repository.FavoriteRepository
	logger       *slog.Logger
}

// FavoriteServiceParams holds dependencies for FavoriteService, injected by Fx.
type FavoriteServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	FavoriteRepo repository.FavoriteRepository
	Logger       *slog.Logger
}

// NewFavoriteService is the constructor for favoriteService.
func NewFavoriteService(params FavoriteServiceParams) usecase.FavoriteUsecase {
	return &favoriteService{
		txManager:    params.TxManager,
		favoriteRepo: params.FavoriteRepo,
		logger:       params.Logger,
	}
}

func (srv *favoriteService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *favoriteService) List(ctx context.Context, actor entity.Actor, page entity.PageRequest) (*entity.Page[*entity.Favorite], error) {
	page = defaultPage(page, constants.DefaultPageLimit)

	favorites, total, err := srv.favoriteRepo.List(ctx, actor.ID, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorites")
	}

	live := make([]*entity.Favorite, 0, len(favorites))
	for _, favorite := range favorites {
		if favorite.Property == nil {
			continue
		}
		live = append(live, favorite)
	}

	return pageOf(live, total, page), nil
}

func (srv *favoriteService) PropertyIDs(ctx context.Context, actor entity.Actor) ([]uuid.UUID, error) {
	ids, err := srv.favoriteRepo.PropertyIDs(ctx, actor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorite ids")
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}

	return ids, nil
}

func (srv *favoriteService) IsFavorite(ctx context.Context, actor entity.Actor, propertyID uuid.UUID) (bool, error) {
	exists, err := srv.favoriteRepo.Exists(ctx, actor.ID, propertyID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check favorite")
	}

	return exists, nil
}

func (srv *favoriteService) Add(ctx context.Context, actor entity.Actor, propertyID uuid.UUID) (*entity.Favorite, error) {
	var favorite *entity.Favorite
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		property, err := repoFactory.NewPropertyRepository().FindByID(ctx, propertyID)
		if err != nil {
			return notFound(err, repository.ErrPropertyNotFound, "Property", "failed to find property")
		}

		favorite = &entity.Favorite{UserID: actor.ID, PropertyID: propertyID}
		if err := repoFactory.NewFavoriteRepository().Create(ctx, favorite); err != nil {
			if errors.Is(err, repository.ErrFavoriteExists) {
				return domainerrors.ErrDuplicateKey.WithMessage("Property is already in favorites")
			}

			return errors.Wrap(err, "failed to add favorite")
		}
		favorite.Property = property

		return nil
	})
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Debug("Favorite added", slog.String("userID", actor.ID.String()), slog.String("propertyID", propertyID.String()))

	return favorite, nil
}

func (srv *favoriteService) Remove(ctx context.Context, actor entity.Actor, propertyID uuid.UUID) error {
	if err := srv.favoriteRepo.Delete(ctx, actor.ID, propertyID); err != nil {
		return notFound(err, repository.ErrFavoriteNotFound, "Favorite", "failed to remove favorite")
	}

	return nil
}

func (srv *favoriteService) Toggle(ctx context.Context, actor entity.Actor, propertyID uuid.UUID) (bool, error) {
	var favorited bool
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.NewPropertyRepository().FindByID(ctx, propertyID); err != nil {
			return notFound(err, repository.ErrPropertyNotFound, "Property", "failed to find property")
		}

		favoriteRepo := repoFactory.NewFavoriteRepository()
		exists, err := favoriteRepo.Exists(ctx, actor.ID, propertyID)
		if err != nil {
			return errors.Wrap(err, "failed to check favorite")
		}

		if exists {
			favorited = false

			return favoriteRepo.Delete(ctx, actor.ID, propertyID)
		}
		favorited = true

		return favoriteRepo.Create(ctx, &entity.Favorite{UserID: actor.ID, PropertyID: propertyID})
	})
	if err != nil {
		return false, err
	}

	return favorited, nil
}
