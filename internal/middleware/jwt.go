package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/nihongo-sekai/internal/utils"
)

// Identity reads an optional "Authorization: Bearer <token>" header and
// stores the user it names in the context.  A missing, malformed or
// expired token leaves the request as a guest; nothing is rejected here.
func Identity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if raw, ok := strings.CutPrefix(auth, "Bearer "); ok && raw != "" {
				if u, err := utils.ParseIdentity(secret, raw); err == nil {
					c.Set(userKey, u)
				} else {
					c.Logger().Debugf("identity: ignoring token: %v", err)
				}
			}
			return next(c)
		}
	}
}
