package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/eschool/eschool-api/internal/api/middleware"
	"github.com/eschool/eschool-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fails fast when it is absent, which means the route was mounted without it.
func ctxIdentity(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get(middleware.UserIDKey).(string)
	role, _ = c.Get(middleware.RoleKey).(string)
	if userID == "" || role == "" {
		return "", "", domain.ErrMissingToken
	}
	return userID, role, nil
}
