package impl

import (
	"context"
	"fmt"
	"log/slog"

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

// viewingService implements the ViewingUsecase interface.
type viewingService struct {
	txManager   repository.TransactionManager
	viewingRepo repository.ViewingRepository
	sender      service.NotificationSender
	logger      *slog.Logger
}

// ViewingServiceParams holds dependencies for ViewingService, injected by Fx.
type ViewingServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ViewingRepo repository.ViewingRepository
	Sender      service.NotificationSender
	Logger      *slog.Logger
}

// NewViewingService is the constructor for viewingService.
func NewViewingService(params ViewingServiceParams) usecase.ViewingUsecase {
	return &viewingService{
		txManager:   params.TxManager,
		viewingRepo: params.ViewingRepo,
		sender:      params.Sender,
		logger:      params.Logger,
	}
}

func (srv *viewingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *viewingService) ListRequested(
	ctx context.Context,
	actor entity.Actor,
	status *entity.ViewingStatus,
	page entity.PageRequest,
) (*entity.Page[*entity.Viewing], error) {
	userID := actor.ID

	return srv.list(ctx, repository.ViewingFilter{UserID: &userID, Status: status}, page)
}

func (srv *viewingService) ListOwned(
	ctx context.Context,
	actor entity.Actor,
	status *entity.ViewingStatus,
	page entity.PageRequest,
) (*entity.Page[*entity.Viewing], error) {
	if !actor.HasAnyRole(entity.RoleOwner, entity.RoleAdmin) {
		return nil, domainerrors.ErrForbidden
	}
	ownerID := actor.ID

	return srv.list(ctx, repository.ViewingFilter{OwnerID: &ownerID, Status: status}, page)
}

func (srv *viewingService) list(ctx context.Context, filter repository.ViewingFilter, page entity.PageRequest) (*entity.Page[*entity.Viewing], error) {
	page = defaultPage(page, constants.DefaultPageLimit)

	viewings, total, err := srv.viewingRepo.List(ctx, filter, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list viewings")
	}

	return pageOf(viewings, total, page), nil
}

// Create requests a visit. A requester holds at most one pending request per property.
func (srv *viewingService) Create(ctx context.Context, actor entity.Actor, input *usecase.CreateViewingInput) (*entity.Viewing, error) {
	var (
		viewing  *entity.Viewing
		property *entity.Property
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		viewingRepo := repoFactory.NewViewingRepository()

		var err error
		property, err = repoFactory.NewPropertyRepository().FindByID(ctx, input.PropertyID)
		if err != nil {
			return notFound(err, repository.ErrPropertyNotFound, "Property", "failed to find property")
		}
		if property.OwnerID == actor.ID {
			return domainerrors.BadRequest("You cannot request a viewing for your own property")
		}

		pending, err := viewingRepo.HasPending(ctx, actor.ID, property.ID)
		if err != nil {
			return errors.Wrap(err, "failed to check pending viewings")
		}
		if pending {
			return domainerrors.BadRequest("You already have a pending viewing request for this property")
		}

		viewing = entity.NewViewing(property, actor.ID, input.Date, optionalNote(input.Note))
		if err := validation.Struct(viewing); err != nil {
			return err
		}

		return viewingRepo.Create(ctx, viewing)
	})
	if err != nil {
		return nil, err
	}
	viewing.Property = property
	srv.log(ctx).Info("Viewing requested", slog.String("viewingID", viewing.ID.String()), slog.String("propertyID", property.ID.String()))

	notifyUser(ctx, srv.log(ctx), srv.sender, property.OwnerID, service.NotificationMessage{
		Type:  entity.NotificationTypeViewing,
		Title: "New Viewing Request",
		Body:  fmt.Sprintf("%s has requested a viewing for \"%s\".", actor.Name, property.Title),
		Data: map[string]any{
			"propertyId": property.ID.String(),
			"viewingId":  viewing.ID.String(),
		},
	})

	return viewing, nil
}

// UpdateStatus moves a pending viewing forward and tells the other side.
func (srv *viewingService) UpdateStatus(
	ctx context.Context,
	actor entity.Actor,
	id uuid.UUID,
	input *usecase.UpdateViewingStatusInput,
) (*entity.Viewing, error) {
	var viewing *entity.Viewing
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		viewingRepo := repoFactory.NewViewingRepository()

		var err error
		viewing, err = viewingRepo.FindByID(ctx, id)
		if err != nil {
			return notFound(err, repository.ErrViewingNotFound, "Viewing", "failed to find viewing")
		}
		if err := viewing.Transition(actor, input.Status, optionalNote(input.CancelReason)); err != nil {
			return err
		}
		if err := validation.Struct(viewing); err != nil {
			return err
		}

		return viewingRepo.Update(ctx, viewing)
	})
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Info("Viewing status updated", slog.String("viewingID", id.String()), slog.String("status", string(viewing.Status)))

	if msg, recipient, ok := viewingStatusNotification(viewing); ok {
		notifyUser(ctx, srv.log(ctx), srv.sender, recipient, msg)
	}

	return viewing, nil
}

func viewingStatusNotification(viewing *entity.Viewing) (service.NotificationMessage, uuid.UUID, bool) {
	title := ""
	if viewing.Property != nil {
		title = viewing.Property.Title
	}
	data := map[string]any{
		"propertyId": viewing.PropertyID.String(),
		"viewingId":  viewing.ID.String(),
	}

	switch viewing.Status {
	case entity.ViewingStatusConfirmed:
		return service.NotificationMessage{
			Type:  entity.NotificationTypeViewing,
			Title: "Viewing Confirmed",
			Body:  fmt.Sprintf("Your viewing request for \"%s\" has been confirmed.", title),
			Data:  data,
		}, viewing.UserID, true
	case entity.ViewingStatusRejected:
		return service.NotificationMessage{
			Type:  entity.NotificationTypeViewing,
			Title: "Viewing Rejected",
			Body:  fmt.Sprintf("Your viewing request for \"%s\" has been rejected.", title),
			Data:  data,
		}, viewing.UserID, true
	case entity.ViewingStatusCancelled:
		return service.NotificationMessage{
			Type:  entity.NotificationTypeViewing,
			Title: "Viewing Cancelled",
			Body:  fmt.Sprintf("A viewing request for \"%s\" has been cancelled.", title),
			Data:  data,
		}, viewing.OwnerID, true
	case entity.ViewingStatusPending, entity.ViewingStatusCompleted:
		return service.NotificationMessage{}, uuid.Nil, false
	default:
		return service.NotificationMessage{}, uuid.Nil, false
	}
}

func (srv *viewingService) Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		viewingRepo := repoFactory.NewViewingRepository()

		viewing, err := viewingRepo.FindByID(ctx, id)
		if err != nil {
			return notFound(err, repository.ErrViewingNotFound, "Viewing", "failed to find viewing")
		}
		if !actor.CanModify(viewing.UserID) {
			return domainerrors.Forbidden("Not authorized to delete this viewing")
		}

		if err := viewingRepo.Delete(ctx, id); err != nil {
			return notFound(err, repository.ErrViewingNotFound, "Viewing", "failed to delete viewing")
		}

		return nil
	})
}

func optionalNote(note *string) *string {
	if note == nil {
		return nil
	}

	return optionalString(*note)
}
