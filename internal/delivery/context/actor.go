package context

import (
	"rentalhub/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// KeyActor is the key for storing the authenticated caller in echo.Context.
const KeyActor ContextKey = "actor"

// SetActor stores the authenticated caller in echo.Context.
func SetActor(c echo.Context, actor entity.Actor) {
	c.Set(string(KeyActor), actor)
}

// GetActor returns the authenticated caller, if the request went through authentication.
func GetActor(c echo.Context) (entity.Actor, bool) {
	actor, ok := c.Get(string(KeyActor)).(entity.Actor)

	return actor, ok
}
