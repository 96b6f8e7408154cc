package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/nihongo-sekai/internal/listing"
	"github.com/iliyamo/nihongo-sekai/internal/middleware"
	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/repository"
	"github.com/iliyamo/nihongo-sekai/internal/service"
)

// Messages for the two empty states of a listing page.
const (
	msgNoResults  = "No results match your filters"
	msgPastTheEnd = "Page is past the end of the results"
)

// CatalogHandler serves the course, classroom and teacher listings.
type CatalogHandler struct {
	Catalog *service.CatalogService
}

func NewCatalogHandler(s *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: s}
}

// List handles GET /v1/{courses,classrooms,partners}.  An unknown filter
// value is a 400; a page with nothing on it is still a 200 and the
// message tells the two empty states apart.
func (h *CatalogHandler) List(kind model.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := listing.ParseParams(kind, c.QueryParams())
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		res, err := h.Catalog.Search(c.Request().Context(), kind, p)
		if err != nil {
			return catalogError(c, err)
		}
		return c.JSON(http.StatusOK, listingBody(res))
	}
}

// listingBody renders a result in the catalog fetch shape.  The live
// search socket pushes the same body.
func listingBody(res listing.Result) echo.Map {
	body := echo.Map{
		"success":     true,
		"data":        res.Items,
		"totalCount":  res.TotalCount,
		"totalPages":  res.TotalPages,
		"currentPage": res.Page.Number,
		"pageSize":    res.Page.Size,
	}
	switch {
	case res.Empty():
		body["message"] = msgNoResults
	case len(res.Items) == 0:
		body["message"] = msgPastTheEnd
	}
	return body
}

// Get handles GET /v1/{kind}/:id.
func (h *CatalogHandler) Get(kind model.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, valid := idParam(c, "id")
		if !valid {
			return badID(c)
		}
		it, err := h.Catalog.Get(c.Request().Context(), kind, id)
		if err != nil {
			return catalogError(c, err)
		}
		return ok(c, http.StatusOK, it)
	}
}

// Enroll handles POST /v1/classrooms/:id/enroll for the current user.
func (h *CatalogHandler) Enroll(c echo.Context) error {
	u, signedIn := middleware.CurrentUser(c)
	if !signedIn {
		return fail(c, http.StatusUnauthorized, "sign in to continue")
	}
	id, valid := idParam(c, "id")
	if !valid {
		return badID(c)
	}
	it, err := h.Catalog.Enroll(c.Request().Context(), id, u)
	if err != nil {
		return catalogError(c, err)
	}
	return ok(c, http.StatusOK, it)
}

func catalogError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		return fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrClassroomFull):
		return fail(c, http.StatusConflict, "this classroom is full")
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		return fail(c, http.StatusConflict, "already enrolled")
	case errors.Is(err, service.ErrCatalogUnavailable):
		return fail(c, http.StatusBadGateway, "could not load the catalog, please try again")
	default:
		c.Logger().Errorf("catalog: %v", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
}
