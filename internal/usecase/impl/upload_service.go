package impl

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/domain/validation"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// uploadService implements the UploadUsecase interface.
type uploadService struct {
	txManager repository.TransactionManager
	storage   service.ObjectStorage
	logger    *slog.Logger
}

// UploadServiceParams holds dependencies for UploadService, injected by Fx.
type UploadServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Storage   service.ObjectStorage
	Logger    *slog.Logger
}

// NewUploadService is the constructor for uploadService.
func NewUploadService(params UploadServiceParams) usecase.UploadUsecase {
	return &uploadService{
		txManager: params.TxManager,
		storage:   params.Storage,
		logger:    params.Logger,
	}
}

func (srv *uploadService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *uploadService) UploadImage(ctx context.Context, _ entity.Actor, folder string, file *usecase.UploadFile) (*service.StoredObject, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, validation.Fail("image", "No image file provided")
	}
	folder, err := cleanFolder(folder, constants.FolderGeneral)
	if err != nil {
		return nil, err
	}

	return srv.store(ctx, folder, file)
}

func (srv *uploadService) UploadImages(ctx context.Context, _ entity.Actor, folder string, files []*usecase.UploadFile) ([]string, error) {
	folder, err := cleanFolder(folder, constants.FolderProperties)
	if err != nil {
		return nil, err
	}

	return srv.storeAll(ctx, folder, files)
}

// UploadProfilePhoto stores the photo and points the caller's photoUrl at it.
func (srv *uploadService) UploadProfilePhoto(ctx context.Context, actor entity.Actor, file *usecase.UploadFile) (*entity.User, *service.StoredObject, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, nil, validation.Fail("image", "No image file provided")
	}

	object, err := srv.store(ctx, constants.FolderProfilePhotos, file)
	if err != nil {
		return nil, nil, err
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		var err error
		user, err = userRepo.FindByID(ctx, actor.ID)
		if err != nil {
			return notFound(err, repository.ErrUserNotFound, "User", "failed to find user")
		}
		url := object.URL
		user.PhotoURL = &url

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		srv.storage.Delete(ctx, object.URL)

		return nil, nil, err
	}

	return user, object, nil
}

// UploadPropertyImages appends the uploaded images to the property's gallery.
func (srv *uploadService) UploadPropertyImages(
	ctx context.Context,
	actor entity.Actor,
	propertyID uuid.UUID,
	files []*usecase.UploadFile,
) (*usecase.PropertyImagesOutput, error) {
	if err := srv.checkPropertyAccess(ctx, actor, propertyID, "Not authorized to upload images for this property"); err != nil {
		return nil, err
	}

	urls, err := srv.storeAll(ctx, path.Join(constants.FolderProperties, propertyID.String()), files)
	if err != nil {
		return nil, err
	}

	property, err := srv.mutateProperty(ctx, actor, propertyID, "Not authorized to upload images for this property", func(p *entity.Property) {
		p.Images = append(p.Images, urls...)
	})
	if err != nil {
		for _, url := range urls {
			srv.storage.Delete(ctx, url)
		}

		return nil, err
	}

	return &usecase.PropertyImagesOutput{URLs: urls, AllImages: property.Images}, nil
}

func (srv *uploadService) DeleteImage(ctx context.Context, _ entity.Actor, imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return validation.Fail("imageUrl", "Image URL is required")
	}
	srv.storage.Delete(ctx, imageURL)

	return nil
}

// DeletePropertyImage removes the URL from the gallery first and the blob afterwards.
func (srv *uploadService) DeletePropertyImage(ctx context.Context, actor entity.Actor, propertyID uuid.UUID, imageURL string) ([]string, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, validation.Fail("imageUrl", "Image URL is required")
	}

	property, err := srv.mutateProperty(ctx, actor, propertyID, "Not authorized to update this property", func(p *entity.Property) {
		p.Images = slices.DeleteFunc(p.Images, func(url string) bool { return url == imageURL })
	})
	if err != nil {
		return nil, err
	}
	srv.storage.Delete(ctx, imageURL)

	return property.Images, nil
}

func (srv *uploadService) checkPropertyAccess(ctx context.Context, actor entity.Actor, propertyID uuid.UUID, forbidden string) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		property, err := repoFactory.NewPropertyRepository().FindByID(ctx, propertyID)
		if err != nil {
			return notFound(err, repository.ErrPropertyNotFound, "Property", "failed to find property")
		}
		if !actor.CanModify(property.OwnerID) {
			return domainerrors.Forbidden(forbidden)
		}

		return nil
	})
}

// mutateProperty changes the gallery only. Image edits do not send a listing back to review.
func (srv *uploadService) mutateProperty(
	ctx context.Context,
	actor entity.Actor,
	propertyID uuid.UUID,
	forbidden string,
	apply func(*entity.Property),
) (*entity.Property, error) {
	var property *entity.Property
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		propertyRepo := repoFactory.NewPropertyRepository()

		var err error
		property, err = propertyRepo.FindByID(ctx, propertyID)
		if err != nil {
			return notFound(err, repository.ErrPropertyNotFound, "Property", "failed to find property")
		}
		if !actor.CanModify(property.OwnerID) {
			return domainerrors.Forbidden(forbidden)
		}

		apply(property)
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

func (srv *uploadService) storeAll(ctx context.Context, folder string, files []*usecase.UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, validation.Fail("images", "No image files provided")
	}
	if len(files) > constants.MaxUploadFiles {
		return nil, domainerrors.BadRequest("Too many files. Maximum is " + strconv.Itoa(constants.MaxUploadFiles))
	}
	for _, file := range files {
		if err := checkImage(file); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		object, err := srv.store(ctx, folder, file)
		if err != nil {
			for _, url := range urls {
				srv.storage.Delete(ctx, url)
			}

			return nil, err
		}
		urls = append(urls, object.URL)
	}

	return urls, nil
}

func (srv *uploadService) store(ctx context.Context, folder string, file *usecase.UploadFile) (*service.StoredObject, error) {
	if err := checkImage(file); err != nil {
		return nil, err
	}

	object, err := srv.storage.Upload(ctx, folder, file.Filename, imageContentType(file), file.Data)
	if err != nil {
		srv.log(ctx).Error("Failed to upload image", slog.String("folder", folder), slog.Any("error", err))

		return nil, domainerrors.ErrStorageFailed.WithDetails(err.Error())
	}
	srv.log(ctx).Debug("Image uploaded", slog.String("key", object.Key), slog.Int64("size", object.Size))

	return object, nil
}

// checkImage enforces the size limit and the image types, sniffing the content when the declared type is missing.
func checkImage(file *usecase.UploadFile) error {
	if file == nil || len(file.Data) == 0 {
		return validation.Fail("image", "No image file provided")
	}
	if len(file.Data) > constants.MaxUploadBytes {
		return domainerrors.ErrPayloadTooLarge
	}
	if !slices.Contains(allowedImageTypes, imageContentType(file)) {
		return domainerrors.BadRequest("Only image files are allowed (jpeg, png, gif, webp)")
	}

	return nil
}

func imageContentType(file *usecase.UploadFile) string {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(file.ContentType, ";", 2)[0]))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(file.Data)
	}
	if contentType == "image/jpg" {
		contentType = "image/jpeg"
	}

	return contentType
}

// cleanFolder keeps uploads inside the bucket's relative key space.
func cleanFolder(folder, fallback string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return fallback, nil
	}
	cleaned := path.Clean(folder)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", validation.Fail("folder", "folder must be a relative path")
	}

	return cleaned, nil
}
