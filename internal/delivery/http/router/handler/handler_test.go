package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentalhub/config"
	deliverycontext "rentalhub/internal/delivery/context"
	httpmiddleware "rentalhub/internal/delivery/http/middleware"
	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/delivery/http/validator"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testActor = entity.Actor{ID: uuid.New(), Role: entity.RoleOwner, Name: "Olive", Active: true}

// newTestEcho mirrors the production error handling and validation.
func newTestEcho() *echo.Echo {
	cfg := &config.Config{}
	cfg.Env.Env = constants.EnvDevelop

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = httpmiddleware.NewErrorMiddleware(httpmiddleware.ErrorMiddlewareParams{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}).HandleHTTPError

	return e
}

func withActor(actor entity.Actor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deliverycontext.SetActor(c, actor)

			return next(c)
		}
	}
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, data any) response.Response {
	t.Helper()

	var body struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	if data != nil {
		require.NoError(t, json.Unmarshal(body.Data, data))
	}

	return body.Response
}

type fakePropertyUC struct {
	usecase.PropertyUsecase

	listInput *usecase.ListPropertiesInput
	created   *usecase.PropertyFields
	property  *entity.Property
	err       error
}

func (f *fakePropertyUC) ListPublic(_ context.Context, input *usecase.ListPropertiesInput) (*entity.Page[*entity.Property], error) {
	f.listInput = input

	return &entity.Page[*entity.Property]{Pagination: entity.NewPagination(input.Page, 0)}, nil
}

func (f *fakePropertyUC) GetProperty(_ context.Context, id uuid.UUID) (*entity.Property, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &entity.Property{ID: id, Title: "Loft"}, nil
}

func (f *fakePropertyUC) Create(_ context.Context, _ entity.Actor, fields *usecase.PropertyFields) (*entity.Property, error) {
	f.created = fields

	return f.property, f.err
}

func (f *fakePropertyUC) Reject(_ context.Context, _ entity.Actor, id uuid.UUID, reason string) (*entity.Property, error) {
	return &entity.Property{ID: id, RejectionReason: &reason}, f.err
}

func TestPropertyHandler_List(t *testing.T) {
	t.Run("parses filters and paging", func(t *testing.T) {
		uc := &fakePropertyUC{}
		h := NewPropertyHandler(PropertyHandlerParams{PropertyUC: uc})
		e := newTestEcho()
		e.GET("/properties", h.List)

		rec := serve(e, httptest.NewRequest(http.MethodGet,
			"/properties?location=Pune&minPrice=100&bedrooms=2&amenities=wifi,parking&lat=18.5&lng=73.8&page=2&limit=500&sortBy=price&sortOrder=asc", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var items []*entity.Property
		body := decodeBody(t, rec, &items)
		assert.True(t, body.Success)
		assert.Empty(t, items)
		require.NotNil(t, body.Pagination)
		assert.Equal(t, 2, body.Pagination.Page)

		input := uc.listInput
		require.NotNil(t, input)
		assert.Equal(t, "Pune", input.Filter.Location)
		require.NotNil(t, input.Filter.MinPrice)
		assert.InDelta(t, 100.0, *input.Filter.MinPrice, 0.001)
		require.NotNil(t, input.Filter.MinBedrooms)
		assert.Equal(t, 2, *input.Filter.MinBedrooms)
		assert.Equal(t, []string{"wifi", "parking"}, input.Filter.Amenities)
		require.NotNil(t, input.Filter.Near)
		assert.InDelta(t, 73.8, input.Filter.Near.Center.Lon(), 0.0001)
		assert.InDelta(t, 18.5, input.Filter.Near.Center.Lat(), 0.0001)
		assert.InDelta(t, float64(defaultNearRadiusKm), input.Filter.Near.RadiusKm, 0.0001)
		assert.Equal(t, constants.MaxPageLimit, input.Page.Limit)
		assert.Equal(t, entity.SortAsc, input.Sort.Order)
	})

	t.Run("rejects lat without lng", func(t *testing.T) {
		h := NewPropertyHandler(PropertyHandlerParams{PropertyUC: &fakePropertyUC{}})
		e := newTestEcho()
		e.GET("/properties", h.List)

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/properties?lat=18.5", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed number", func(t *testing.T) {
		h := NewPropertyHandler(PropertyHandlerParams{PropertyUC: &fakePropertyUC{}})
		e := newTestEcho()
		e.GET("/properties", h.List)

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/properties?maxPrice=cheap", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid maxPrice", decodeBody(t, rec, nil).Message)
	})
}

func TestPropertyHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{name: "found", id: uuid.NewString(), wantStatus: http.StatusOK},
		{name: "invalid id", id: "not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "missing", id: uuid.NewString(), err: domainerrors.NotFound("Property"), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPropertyHandler(PropertyHandlerParams{PropertyUC: &fakePropertyUC{err: tt.err}})
			e := newTestEcho()
			e.GET("/properties/:id", h.Get)

			rec := serve(e, httptest.NewRequest(http.MethodGet, "/properties/"+tt.id, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPropertyHandler_Create(t *testing.T) {
	t.Run("maps coordinates to lng lat", func(t *testing.T) {
		uc := &fakePropertyUC{property: &entity.Property{ID: uuid.New(), Title: "Loft"}}
		h := NewPropertyHandler(PropertyHandlerParams{PropertyUC: uc})
		e := newTestEcho()
		e.POST("/properties", h.Create, withActor(testActor))

		rec := serve(e, jsonRequest(http.MethodPost, "/properties",
			`{"title":"Loft","price":1200,"coordinates":{"lat":18.52,"lng":73.85}}`))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, uc.created)
		require.NotNil(t, uc.created.Coordinates)
		assert.InDelta(t, 73.85, uc.created.Coordinates.Lon(), 0.0001)
		assert.InDelta(t, 18.52, uc.created.Coordinates.Lat(), 0.0001)
		assert.Equal(t, "Property created successfully. Waiting for admin approval.", decodeBody(t, rec, nil).Message)
	})

	t.Run("requires an actor", func(t *testing.T) {
		h := NewPropertyHandler(PropertyHandlerParams{PropertyUC: &fakePropertyUC{}})
		e := newTestEcho()
		e.POST("/properties", h.Create)

		rec := serve(e, jsonRequest(http.MethodPost, "/properties", `{}`))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an invalid body", func(t *testing.T) {
		h := NewPropertyHandler(PropertyHandlerParams{PropertyUC: &fakePropertyUC{}})
		e := newTestEcho()
		e.POST("/properties", h.Create, withActor(testActor))

		rec := serve(e, jsonRequest(http.MethodPost, "/properties", `{"title":`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeBody(t, rec, nil).Message)
	})

	t.Run("rejects out of range coordinates", func(t *testing.T) {
		h := NewPropertyHandler(PropertyHandlerParams{PropertyUC: &fakePropertyUC{}})
		e := newTestEcho()
		e.POST("/properties", h.Create, withActor(testActor))

		rec := serve(e, jsonRequest(http.MethodPost, "/properties", `{"coordinates":{"lat":123,"lng":0}}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec, nil)
		require.NotNil(t, body.Error)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	})
}

func TestPropertyHandler_Reject(t *testing.T) {
	h := NewPropertyHandler(PropertyHandlerParams{PropertyUC: &fakePropertyUC{}})
	e := newTestEcho()
	e.PUT("/properties/:id/reject", h.Reject, withActor(entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin, Active: true}))

	rec := serve(e, jsonRequest(http.MethodPut, "/properties/"+uuid.NewString()+"/reject", `{"reason":"Blurry photos"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Property entity.Property `json:"property"`
	}
	decodeBody(t, rec, &data)
	require.NotNil(t, data.Property.RejectionReason)
	assert.Equal(t, "Blurry photos", *data.Property.RejectionReason)
}

type fakeFavoriteUC struct {
	usecase.FavoriteUsecase

	favorites map[uuid.UUID]bool
}

func (f *fakeFavoriteUC) IsFavorite(_ context.Context, _ entity.Actor, propertyID uuid.UUID) (bool, error) {
	return f.favorites[propertyID], nil
}

func (f *fakeFavoriteUC) Toggle(_ context.Context, _ entity.Actor, propertyID uuid.UUID) (bool, error) {
	f.favorites[propertyID] = !f.favorites[propertyID]

	return f.favorites[propertyID], nil
}

func (f *fakeFavoriteUC) PropertyIDs(context.Context, entity.Actor) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(f.favorites))
	for id, ok := range f.favorites {
		if ok {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func TestFavoriteHandler_ToggleAndCheck(t *testing.T) {
	uc := &fakeFavoriteUC{favorites: map[uuid.UUID]bool{}}
	h := NewFavoriteHandler(FavoriteHandlerParams{FavoriteUC: uc})
	e := newTestEcho()
	g := e.Group("/favorites", withActor(testActor))
	g.GET("/ids", h.IDs)
	g.GET("/check/:propertyId", h.Check)
	g.POST("/toggle/:propertyId", h.Toggle)

	propertyID := uuid.New()

	rec := serve(e, httptest.NewRequest(http.MethodPost, "/favorites/toggle/"+propertyID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled map[string]bool
	body := decodeBody(t, rec, &toggled)
	assert.True(t, toggled["isFavorite"])
	assert.Equal(t, "Property added to favorites", body.Message)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/favorites/check/"+propertyID.String(), nil))
	var checked map[string]bool
	decodeBody(t, rec, &checked)
	assert.True(t, checked["isFavorite"])

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/favorites/ids", nil))
	var ids map[string][]uuid.UUID
	decodeBody(t, rec, &ids)
	assert.Equal(t, []uuid.UUID{propertyID}, ids["favoriteIds"])

	rec = serve(e, httptest.NewRequest(http.MethodPost, "/favorites/toggle/"+propertyID.String(), nil))
	toggled = nil
	body = decodeBody(t, rec, &toggled)
	assert.False(t, toggled["isFavorite"])
	assert.Equal(t, "Property removed from favorites", body.Message)
}

type fakeUploadUC struct {
	usecase.UploadUsecase

	files []*usecase.UploadFile
}

func (f *fakeUploadUC) UploadImage(_ context.Context, _ entity.Actor, folder string, file *usecase.UploadFile) (*service.StoredObject, error) {
	f.files = append(f.files, file)

	return &service.StoredObject{URL: "https://cdn.example.com/" + folder + "/" + file.Filename, Key: folder + "/" + file.Filename}, nil
}

func (f *fakeUploadUC) UploadImages(_ context.Context, _ entity.Actor, _ string, files []*usecase.UploadFile) ([]string, error) {
	f.files = append(f.files, files...)
	urls := make([]string, 0, len(files))
	for _, file := range files {
		urls = append(urls, "https://cdn.example.com/"+file.Filename)
	}

	return urls, nil
}

func multipartRequest(t *testing.T, target, field string, sizes ...int) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("folder", "general"))
	for i, size := range sizes {
		part, err := writer.CreateFormFile(field, "photo"+string(rune('a'+i))+".png")
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0x89}, size))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())

	return req
}

func TestUploadHandler(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		field      string
		sizes      []int
		wantStatus int
		wantFiles  int
	}{
		{name: "single image", target: "/upload/image", field: "image", sizes: []int{128}, wantStatus: http.StatusOK, wantFiles: 1},
		{name: "missing image", target: "/upload/image", field: "other", sizes: []int{128}, wantStatus: http.StatusBadRequest},
		{name: "image too large", target: "/upload/image", field: "image", sizes: []int{constants.MaxUploadBytes + 1}, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "several images", target: "/upload/images", field: "images", sizes: []int{16, 32, 64}, wantStatus: http.StatusOK, wantFiles: 3},
		{
			name:       "too many images",
			target:     "/upload/images",
			field:      "images",
			sizes:      make([]int, constants.MaxUploadFiles+1),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUploadUC{}
			h := NewUploadHandler(UploadHandlerParams{UploadUC: uc})
			e := newTestEcho()
			g := e.Group("/upload", withActor(testActor))
			g.POST("/image", h.UploadImage)
			g.POST("/images", h.UploadImages)

			rec := serve(e, multipartRequest(t, tt.target, tt.field, tt.sizes...))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Len(t, uc.files, tt.wantFiles)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	e := newTestEcho()
	e.GET("/api/health", HealthCheck)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
