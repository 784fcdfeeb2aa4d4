package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/domain/constants"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	formFieldImage  = "image"
	formFieldImages = "images"
	formFieldFolder = "folder"
)

// UploadHandlerParams holds dependencies for UploadHandler, injected by Fx.
type UploadHandlerParams struct {
	fx.In

	UploadUC usecase.UploadUsecase
}

// UploadHandler receives multipart image uploads.
type UploadHandler struct {
	uploadUC usecase.UploadUsecase
}

// NewUploadHandler is the constructor for UploadHandler.
func NewUploadHandler(params UploadHandlerParams) *UploadHandler {
	return &UploadHandler{uploadUC: params.UploadUC}
}

// DeleteImageRequest names an uploaded image by its public URL.
type DeleteImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// UploadImage stores a single image under ?folder or the general folder.
func (h *UploadHandler) UploadImage(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	file, err := formImage(c)
	if err != nil {
		return err
	}

	object, err := h.uploadUC.UploadImage(c.Request().Context(), actor, c.FormValue(formFieldFolder), file)
	if err != nil {
		return err
	}

	return response.OK(c, map[string]any{"url": object.URL, "key": object.Key}, "Image uploaded successfully")
}

func (h *UploadHandler) UploadImages(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	files, err := formImages(c)
	if err != nil {
		return err
	}

	urls, err := h.uploadUC.UploadImages(c.Request().Context(), actor, c.FormValue(formFieldFolder), files)
	if err != nil {
		return err
	}

	return response.OK(c, map[string][]string{"urls": urls}, "Images uploaded successfully")
}

func (h *UploadHandler) UploadProfilePhoto(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	file, err := formImage(c)
	if err != nil {
		return err
	}

	user, object, err := h.uploadUC.UploadProfilePhoto(c.Request().Context(), actor, file)
	if err != nil {
		return err
	}

	return response.OK(c, map[string]any{"photoUrl": object.URL, "user": user}, "Profile photo uploaded successfully")
}

func (h *UploadHandler) UploadPropertyImages(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	propertyID, err := paramID(c, "propertyId", "property")
	if err != nil {
		return err
	}
	files, err := formImages(c)
	if err != nil {
		return err
	}

	output, err := h.uploadUC.UploadPropertyImages(c.Request().Context(), actor, propertyID, files)
	if err != nil {
		return err
	}

	return response.OK(c, output, "Property images uploaded successfully")
}

func (h *UploadHandler) DeleteImage(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req DeleteImageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.uploadUC.DeleteImage(c.Request().Context(), actor, req.ImageURL); err != nil {
		return err
	}

	return response.OK(c, nil, "Image deleted successfully")
}

func (h *UploadHandler) DeletePropertyImage(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	propertyID, err := paramID(c, "propertyId", "property")
	if err != nil {
		return err
	}
	var req DeleteImageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	images, err := h.uploadUC.DeletePropertyImage(c.Request().Context(), actor, propertyID, req.ImageURL)
	if err != nil {
		return err
	}

	return response.OK(c, map[string][]string{"images": images}, "Image deleted successfully")
}

func formImage(c echo.Context) (*usecase.UploadFile, error) {
	header, err := c.FormFile(formFieldImage)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, domainerrors.BadRequest("No image file provided")
		}

		return nil, domainerrors.BadRequest("Invalid multipart form")
	}

	return readUpload(header)
}

func formImages(c echo.Context) ([]*usecase.UploadFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid multipart form")
	}
	headers := form.File[formFieldImages]
	if len(headers) == 0 {
		return nil, domainerrors.BadRequest("No image files provided")
	}
	if len(headers) > constants.MaxUploadFiles {
		return nil, domainerrors.BadRequest("Too many files. Maximum is " + strconv.Itoa(constants.MaxUploadFiles))
	}

	files := make([]*usecase.UploadFile, 0, len(headers))
	for _, header := range headers {
		file, err := readUpload(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

func readUpload(header *multipart.FileHeader) (*usecase.UploadFile, error) {
	if header.Size > constants.MaxUploadBytes {
		return nil, domainerrors.ErrPayloadTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, constants.MaxUploadBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "read uploaded file")
	}
	if len(data) > constants.MaxUploadBytes {
		return nil, domainerrors.ErrPayloadTooLarge
	}

	return &usecase.UploadFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}
