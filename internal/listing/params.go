package listing

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// ErrInvalidFilter wraps every parse failure of ParseParams so handlers
// can answer 400 with a single errors.Is check.
var ErrInvalidFilter = errors.New("invalid listing parameter")

// MaxPageSize caps client supplied page sizes.
const MaxPageSize = 100

// Params is a fully parsed listing request.
type Params struct {
	Filters Filters
	Sort    model.SortKey
	Page    Page
	// Clamp asks the caller to move an out-of-range page back to the
	// last page with results.
	Clamp bool
}

// ParseParams reads listing parameters from a query string.  Empty
// values and the dropdown value "all" mean "no constraint".  Page and
// page size are clamped the way the public search endpoints always did:
// page below 1 becomes 1, page size falls back to the kind's default and
// is capped at MaxPageSize.
func ParseParams(kind model.Kind, q url.Values) (Params, error) {
	p := Params{
		Sort:  model.DefaultSort(kind),
		Page:  Page{Number: 1, Size: model.DefaultPageSize(kind)},
		Clamp: true,
	}

	p.Filters.Search = strings.TrimSpace(q.Get("search"))
	p.Filters.Category = unset(q.Get("category"))

	if v := unset(q.Get("level")); v != "" {
		l, err := model.ParseLevel(v)
		if err != nil {
			return Params{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		p.Filters.Level = l
	}
	if v := unset(q.Get("status")); v != "" {
		s, err := model.ParseStatus(kind, v)
		if err != nil {
			return Params{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		p.Filters.Status = s
	}
	if v := unset(q.Get("priceRange")); v != "" {
		r, err := model.ParsePriceRange(v)
		if err != nil {
			return Params{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		p.Filters.PriceRange = r
	}
	if v := unset(q.Get("timeOfDay")); v != "" {
		t, err := model.ParseTimeOfDay(v)
		if err != nil {
			return Params{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		p.Filters.TimeOfDay = t
	}
	if v := unset(q.Get("minRating")); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 || r > 5 {
			return Params{}, fmt.Errorf("%w: minRating must be between 0 and 5", ErrInvalidFilter)
		}
		p.Filters.MinRating = r
	}
	if v := strings.TrimSpace(q.Get("sort")); v != "" {
		k, err := model.ParseSortKey(v)
		if err != nil {
			return Params{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		p.Sort = k
	}

	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 1 {
		p.Page.Number = n
	}
	if n, err := strconv.Atoi(q.Get("pageSize")); err == nil && n > 0 {
		if n > MaxPageSize {
			n = MaxPageSize
		}
		p.Page.Size = n
	}
	if v := q.Get("clamp"); v != "" {
		p.Clamp = v != "false" && v != "0"
	}
	return p, nil
}

func unset(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}
