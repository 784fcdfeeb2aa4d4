// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"strconv"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// actorFrom returns the caller stored by the auth middleware.
func actorFrom(c echo.Context) (entity.Actor, error) {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return entity.Actor{}, domainerrors.ErrUnauthenticated
	}

	return actor, nil
}

// paramID parses the named path parameter as a UUID.
func paramID(c echo.Context, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.BadRequest("Invalid " + resource + " ID")
	}

	return id, nil
}

// bind decodes the request body into req and runs its validate tags.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.BadRequest("Invalid request body")
	}

	return c.Validate(req)
}

// pageRequest reads ?page and ?limit, clamping limit to the API maximum.
func pageRequest(c echo.Context, defaultLimit int) entity.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	return entity.NewPageRequest(page, limit, defaultLimit, constants.MaxPageLimit)
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid " + name)
	}

	return &value, nil
}

func queryInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid " + name)
	}

	return &value, nil
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
