package middleware

import (
	"github.com/labstack/echo/v4"

	xhttp "AlphaPulse/pkg/http"
)

const userIDKey = "userID"

// Identity extracts the user id asserted by the upstream auth gateway.
// Requests without it never reach the handlers.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := c.Request().Header.Get("X-User-ID")
			if uid == "" {
				return xhttp.UnauthorizedResponse(c, "missing identity")
			}
			c.Set(userIDKey, uid)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id set by Identity.
func UserID(c echo.Context) string {
	uid, _ := c.Get(userIDKey).(string)
	return uid
}
