package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireUser aborts guest requests with 401.  It checks that a current
// user is known, not what that user may do; routes that act on behalf of
// someone (enrolling, joining a call) need a name to act for.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "sign in to continue",
				})
			}
			return next(c)
		}
	}
}
