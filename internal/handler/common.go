package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Every JSON response carries a "success" flag.  Failures add a
// human-readable "message"; successes put the payload under "data".

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// idParam parses a positive numeric path parameter.
func idParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func badID(c echo.Context) error {
	return fail(c, http.StatusBadRequest, "invalid id")
}
