package usecase

import (
	"context"

	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/service"

	"github.com/google/uuid"
)

// UploadFile is one image received in a multipart request.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PropertyImagesOutput lists the new images and the property's full image list.
type PropertyImagesOutput struct {
	URLs      []string `json:"urls"`
	AllImages []string `json:"allImages"`
}

// UploadUsecase stores images in object storage.
type UploadUsecase interface {
	UploadImage(ctx context.Context, actor entity.Actor, folder string, file *UploadFile) (*service.StoredObject, error)
	UploadImages(ctx context.Context, actor entity.Actor, folder string, files []*UploadFile) ([]string, error)
	UploadProfilePhoto(ctx context.Context, actor entity.Actor, file *UploadFile) (*entity.User, *service.StoredObject, error)
	UploadPropertyImages(ctx context.Context, actor entity.Actor, propertyID uuid.UUID, files []*UploadFile) (*PropertyImagesOutput, error)
	DeleteImage(ctx context.Context, actor entity.Actor, imageURL string) error
	// DeletePropertyImage returns the remaining images.
	DeletePropertyImage(ctx context.Context, actor entity.Actor, propertyID uuid.UUID, imageURL string) ([]string, error)
}
