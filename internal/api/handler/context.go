package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codedocs/snippets-api/internal/api/middleware"
	"github.com/codedocs/snippets-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware
// and fast-fails before any service call: a missing user ID means the
// middleware never ran on this route, which is a wiring bug surfaced
// as 401 rather than a panic downstream.
func ctxIdentity(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, _ = c.Get(middleware.CtxRole).(domain.Role)
	return userID, role, nil
}
