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
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// propertyService implements the PropertyUsecase interface.
type propertyService struct {
	txManager     repository.TransactionManager
	propertyRepo  repository.PropertyRepository
	qrCodeService service.QRCodeService
	sender        service.NotificationSender
	adminNotifier service.AdminNotifier
	logger        *slog.Logger
}

// PropertyServiceParams holds dependencies for PropertyService, injected by Fx.
type PropertyServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	PropertyRepo  repository.PropertyRepository
	QRCodeService service.QRCodeService
	Sender        service.NotificationSender
	AdminNotifier service.AdminNotifier
	Logger        *slog.Logger
}

// NewPropertyService is the constructor for propertyService.
func NewPropertyService(params PropertyServiceParams) usecase.PropertyUsecase {
	return &propertyService{
		txManager:     params.TxManager,
		propertyRepo:  params.PropertyRepo,
		qrCodeService: params.QRCodeService,
		sender:        params.Sender,
		adminNotifier: params.AdminNotifier,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *propertyService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *propertyService) ListPublic(ctx context.Context, input *usecase.ListPropertiesInput) (*entity.Page[*entity.Property], error) {
	filter := input.Filter
	approved := entity.PropertyStatusApproved
	filter.Status = &approved

	return srv.list(ctx, filter, input.Sort, input.Page)
}

func (srv *propertyService) GetProperty(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	property, err := srv.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrPropertyNotFound, "Property", "failed to find property")
	}

	return property, nil
}

func (srv *propertyService) RecordView(ctx context.Context, id uuid.UUID) (int, error) {
	views, err := srv.propertyRepo.IncrementViews(ctx, id)
	if err != nil {
		return 0, notFound(err, repository.ErrPropertyNotFound, "Property", "failed to record view")
	}

	return views, nil
}

// ShareQRCode renders the PNG share code of an existing property.
func (srv *propertyService) ShareQRCode(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := srv.GetProperty(ctx, id); err != nil {
		return nil, err
	}

	png, err := srv.qrCodeService.GeneratePropertyQR(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate qr code")
	}

	return png, nil
}

func (srv *propertyService) ListMine(
	ctx context.Context,
	actor entity.Actor,
	status *entity.PropertyStatus,
	page entity.PageRequest,
) (*entity.Page[*entity.Property], error) {
	ownerID := actor.ID

	return srv.list(ctx, repository.PropertyFilter{OwnerID: &ownerID, Status: status}, repository.PropertySort{}, page)
}

func (srv *propertyService) ListByStatus(
	ctx context.Context,
	actor entity.Actor,
	status entity.PropertyStatus,
	page entity.PageRequest,
) (*entity.Page[*entity.Property], error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}

	return srv.list(ctx, repository.PropertyFilter{Status: &status}, repository.PropertySort{}, page)
}

func (srv *propertyService) list(
	ctx context.Context,
	filter repository.PropertyFilter,
	sort repository.PropertySort,
	page entity.PageRequest,
) (*entity.Page[*entity.Property], error) {
	if sort.Field == "" {
		sort = repository.PropertySort{Field: repository.PropertySortCreatedAt, Order: entity.SortDesc}
	}
	page = defaultPage(page, constants.DefaultPageLimit)

	properties, total, err := srv.propertyRepo.List(ctx, filter, sort, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list properties")
	}

	return pageOf(properties, total, page), nil
}

// Create stores a pending listing and asks the admins to review it.
func (srv *propertyService) Create(ctx context.Context, actor entity.Actor, fields *usecase.PropertyFields) (*entity.Property, error) {
	if !actor.HasAnyRole(entity.RoleOwner, entity.RoleAdmin) {
		return nil, domainerrors.Forbidden("Only owners can create properties")
	}

	property := entity.NewProperty(actor.ID)
	fields.Apply(property)
	if err := property.Validate(); err != nil {
		return nil, err
	}

	if err := srv.propertyRepo.Create(ctx, property); err != nil {
		return nil, errors.Wrap(err, "failed to create property")
	}
	srv.log(ctx).Info("Property created", slog.String("propertyID", property.ID.String()), slog.String("ownerID", actor.ID.String()))

	notifyAdmins(ctx, srv.log(ctx), srv.adminNotifier, service.NotificationMessage{
		Type:  entity.NotificationTypePropertyUpdate,
		Title: "New Property Submitted",
		Body:  fmt.Sprintf("A new property \"%s\" has been submitted for review.", property.Title),
		Data:  map[string]any{"propertyId": property.ID.String()},
	})

	return property, nil
}

// Update edits a listing. Any non-admin edit sends it back to review.
func (srv *propertyService) Update(ctx context.Context, actor entity.Actor, id uuid.UUID, fields *usecase.PropertyFields) (*entity.Property, error) {
	return srv.mutate(ctx, id, func(property *entity.Property) error {
		if !actor.CanModify(property.OwnerID) {
			return domainerrors.Forbidden("Not authorized to update this property")
		}
		fields.Apply(property)
		property.MarkEdited(actor)

		return nil
	})
}

// Delete removes the listing only. Reviews, favorites and viewings that point at it stay.
func (srv *propertyService) Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		propertyRepo := repoFactory.NewPropertyRepository()

		property, err := propertyRepo.FindByID(ctx, id)
		if err != nil {
			return notFound(err, repository.ErrPropertyNotFound, "Property", "failed to find property")
		}
		if !actor.CanModify(property.OwnerID) {
			return domainerrors.Forbidden("Not authorized to delete this property")
		}

		if err := propertyRepo.Delete(ctx, id); err != nil {
			return notFound(err, repository.ErrPropertyNotFound, "Property", "failed to delete property")
		}

		return nil
	})
	if err != nil {
		return err
	}
	srv.log(ctx).Info("Property deleted", slog.String("propertyID", id.String()), slog.String("by", actor.ID.String()))

	return nil
}

// Resubmit returns the owner's rejected listing to the review queue.
func (srv *propertyService) Resubmit(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Property, error) {
	property, err := srv.mutate(ctx, id, func(property *entity.Property) error {
		if property.OwnerID != actor.ID {
			return domainerrors.Forbidden("Not authorized")
		}

		return property.Resubmit()
	})
	if err != nil {
		return nil, err
	}

	notifyAdmins(ctx, srv.log(ctx), srv.adminNotifier, service.NotificationMessage{
		Type:  entity.NotificationTypePropertyUpdate,
		Title: "Property Resubmitted",
		Body:  fmt.Sprintf("Property \"%s\" has been resubmitted for review.", property.Title),
		Data:  map[string]any{"propertyId": property.ID.String()},
	})

	return property, nil
}

func (srv *propertyService) ToggleAvailability(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Property, error) {
	return srv.mutate(ctx, id, func(property *entity.Property) error {
		if !actor.CanModify(property.OwnerID) {
			return domainerrors.Forbidden("Not authorized to update this property")
		}
		property.ToggleAvailability()

		return nil
	})
}

func (srv *propertyService) Approve(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Property, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}

	property, err := srv.mutate(ctx, id, func(property *entity.Property) error {
		return property.Approve()
	})
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Info("Property approved", slog.String("propertyID", id.String()), slog.String("by", actor.ID.String()))

	notifyUser(ctx, srv.log(ctx), srv.sender, property.OwnerID, service.NotificationMessage{
		Type:  entity.NotificationTypeApproval,
		Title: "Property Approved",
		Body:  fmt.Sprintf("Your property \"%s\" has been approved and is now live.", property.Title),
		Data:  map[string]any{"propertyId": property.ID.String()},
	})

	return property, nil
}

func (srv *propertyService) Reject(ctx context.Context, actor entity.Actor, id uuid.UUID, reason string) (*entity.Property, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}

	property, err := srv.mutate(ctx, id, func(property *entity.Property) error {
		return property.Reject(reason)
	})
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Info("Property rejected", slog.String("propertyID", id.String()), slog.String("by", actor.ID.String()))

	notifyUser(ctx, srv.log(ctx), srv.sender, property.OwnerID, service.NotificationMessage{
		Type:  entity.NotificationTypeApproval,
		Title: "Property Rejected",
		Body:  fmt.Sprintf("Your property \"%s\" has been rejected. Reason: %s", property.Title, *property.RejectionReason),
		Data:  map[string]any{"propertyId": property.ID.String()},
	})

	return property, nil
}

// mutate loads, changes, validates and saves a property in one transaction.
func (srv *propertyService) mutate(ctx context.Context, id uuid.UUID, apply func(*entity.Property) error) (*entity.Property, error) {
	var property *entity.Property
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		propertyRepo := repoFactory.NewPropertyRepository()

		var err error
		property, err = propertyRepo.FindByID(ctx, id)
		if err != nil {
			return notFound(err, repository.ErrPropertyNotFound, "Property", "failed to find property")
		}
		if err := apply(property); err != nil {
			return err
		}
		if err := property.Validate(); err != nil {
			return err
		}

		return propertyRepo.Update(ctx, property)
	})
	if err != nil {
		return nil, err
	}

	return property, nil
}
