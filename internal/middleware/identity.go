package middleware

// identity.go holds the echo context keys the gate writes and the helpers
// handlers and other middleware use to read the resolved identity back.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/realestate-listing/internal/model"
)

const (
	ctxIdentity = "identity"
	ctxUserID   = "user_id"
	ctxRole     = "role"
)

func setIdentity(c echo.Context, u model.User) {
	c.Set(ctxIdentity, u)
	c.Set(ctxUserID, u.ID)
	c.Set(ctxRole, u.Role)
}

// CurrentUser returns the identity resolved by the gate for this request.
// ok is false on public routes.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(ctxIdentity).(model.User)
	return u, ok && u.ID != 0
}
