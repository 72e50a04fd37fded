package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadline/telecrm-api/internal/core/ports"
)

// ctxIdentity extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both user_id and role
// must be non-empty (presence proves the middleware ran and the token names
// a real principal). A structurally valid JWT without them is unusable and
// is rejected with 401 rather than letting an empty scope widen a query.
func ctxIdentity(c echo.Context) (ports.Identity, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Identity{UserID: userID, Role: role}, nil
}
