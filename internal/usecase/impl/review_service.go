package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/domain/validation"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager  repository.TransactionManager
	reviewRepo repository.ReviewRepository
	sender     service.NotificationSender
	logger     *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	ReviewRepo repository.ReviewRepository
	Sender     service.NotificationSender
	Logger     *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager:  params.TxManager,
		reviewRepo: params.ReviewRepo,
		sender:     params.Sender,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *reviewService) ListByProperty(
	ctx context.Context,
	propertyID uuid.UUID,
	sort repository.ReviewSort,
	page entity.PageRequest,
) (*entity.Page[*entity.Review], error) {
	if sort.Field == "" {
		sort = repository.ReviewSort{Field: repository.ReviewSortCreatedAt, Order: entity.SortDesc}
	}
	page = defaultPage(page, constants.DefaultPageLimit)

	reviews, total, err := srv.reviewRepo.ListByProperty(ctx, propertyID, sort, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return pageOf(reviews, total, page), nil
}

func (srv *reviewService) ListByUser(ctx context.Context, userID uuid.UUID, page entity.PageRequest) (*entity.Page[*entity.Review], error) {
	page = defaultPage(page, constants.DefaultPageLimit)

	reviews, total, err := srv.reviewRepo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return pageOf(reviews, total, page), nil
}

// Create stores the review, refreshes the property's rating and notifies its owner.
func (srv *reviewService) Create(ctx context.Context, actor entity.Actor, input *usecase.CreateReviewInput) (*entity.Review, error) {
	review := &entity.Review{
		PropertyID: input.PropertyID,
		UserID:     actor.ID,
		Rating:     input.Rating,
		ReviewText: strings.TrimSpace(input.ReviewText),
		HelpfulBy:  []uuid.UUID{},
	}
	if err := validation.Struct(review); err != nil {
		return nil, err
	}

	var property *entity.Property
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.NewReviewRepository()

		var err error
		property, err = repoFactory.NewPropertyRepository().FindByID(ctx, input.PropertyID)
		if err != nil {
			return notFound(err, repository.ErrPropertyNotFound, "Property", "failed to find property")
		}

		_, err = reviewRepo.FindByUserAndProperty(ctx, actor.ID, input.PropertyID)
		switch {
		case err == nil:
			return domainerrors.ErrDuplicateKey.WithMessage("You have already reviewed this property")
		case !errors.Is(err, repository.ErrReviewNotFound):
			return errors.Wrap(err, "failed to check existing review")
		}

		if property.OwnerID == actor.ID {
			return domainerrors.BadRequest("You cannot review your own property")
		}

		author, err := repoFactory.NewUserRepository().FindByID(ctx, actor.ID)
		if err != nil {
			return notFound(err, repository.ErrUserNotFound, "User", "failed to load review author")
		}
		review.UserName = author.Name
		review.UserPhotoURL = author.PhotoURL

		if err := reviewRepo.Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrReviewExists) {
				return domainerrors.ErrDuplicateKey.WithMessage("You have already reviewed this property")
			}

			return errors.Wrap(err, "failed to create review")
		}

		return refreshRating(ctx, repoFactory, property.ID)
	})
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Info("Review created", slog.String("reviewID", review.ID.String()), slog.String("propertyID", property.ID.String()))

	notifyUser(ctx, srv.log(ctx), srv.sender, property.OwnerID, service.NotificationMessage{
		Type:  entity.NotificationTypeReview,
		Title: "New Review",
		Body:  fmt.Sprintf("%s left a %d-star review on \"%s\"", review.UserName, review.Rating, property.Title),
		Data: map[string]any{
			"propertyId": property.ID.String(),
			"reviewId":   review.ID.String(),
		},
	})

	return review, nil
}

// Update edits a review as its author or an admin. The helpful votes are kept.
func (srv *reviewService) Update(ctx context.Context, actor entity.Actor, id uuid.UUID, input *usecase.UpdateReviewInput) (*entity.Review, error) {
	var review *entity.Review
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.NewReviewRepository()

		var err error
		review, err = reviewRepo.FindByID(ctx, id)
		if err != nil {
			return notFound(err, repository.ErrReviewNotFound, "Review", "failed to find review")
		}
		if !actor.CanModify(review.UserID) {
			return domainerrors.Forbidden("Not authorized to update this review")
		}

		if input.Rating != nil {
			review.Rating = *input.Rating
		}
		if input.ReviewText != nil {
			review.ReviewText = strings.TrimSpace(*input.ReviewText)
		}
		if err := validation.Struct(review); err != nil {
			return err
		}

		if err := reviewRepo.Update(ctx, review); err != nil {
			return notFound(err, repository.ErrReviewNotFound, "Review", "failed to update review")
		}

		return refreshRating(ctx, repoFactory, review.PropertyID)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

func (srv *reviewService) Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.NewReviewRepository()

		review, err := reviewRepo.FindByID(ctx, id)
		if err != nil {
			return notFound(err, repository.ErrReviewNotFound, "Review", "failed to find review")
		}
		if !actor.CanModify(review.UserID) {
			return domainerrors.Forbidden("Not authorized to delete this review")
		}

		if err := reviewRepo.Delete(ctx, id); err != nil {
			return notFound(err, repository.ErrReviewNotFound, "Review", "failed to delete review")
		}

		return refreshRating(ctx, repoFactory, review.PropertyID)
	})
	if err != nil {
		return err
	}
	srv.log(ctx).Info("Review deleted", slog.String("reviewID", id.String()), slog.String("by", actor.ID.String()))

	return nil
}

// ToggleHelpful flips the caller's helpful vote. A second call undoes the first.
func (srv *reviewService) ToggleHelpful(ctx context.Context, actor entity.Actor, id uuid.UUID) (*usecase.HelpfulOutput, error) {
	var out usecase.HelpfulOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.NewReviewRepository()

		review, err := reviewRepo.FindByID(ctx, id)
		if err != nil {
			return notFound(err, repository.ErrReviewNotFound, "Review", "failed to find review")
		}

		helpful := !review.IsHelpfulBy(actor.ID)
		count, err := reviewRepo.SetHelpful(ctx, id, actor.ID, helpful)
		if err != nil {
			return errors.Wrap(err, "failed to toggle helpful vote")
		}
		out = usecase.HelpfulOutput{HelpfulCount: count, IsHelpful: helpful}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}
