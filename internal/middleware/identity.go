package middleware

// identity.go holds the context helpers shared by the middleware and the
// handlers.  The Identity middleware stores a model.User under userKey;
// requests without one are guests.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

const userKey = "current_user"

// CurrentUser returns the caller's identity.  ok is false for guests.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok && u.ID != 0
}

// userID is the rate-limit key component for the caller: the numeric
// user id or "guest".
func userID(c echo.Context) string {
	if u, ok := CurrentUser(c); ok {
		return strconv.FormatUint(u.ID, 10)
	}
	return "guest"
}
