package model

import (
	"fmt"
	"strings"
)

// PriceRange is a named price bucket used by the listing filters.
type PriceRange string

const (
	PriceFree    PriceRange = "free"
	PriceUnder50 PriceRange = "under50"
	Price50To100 PriceRange = "50to100"
	PriceOver100 PriceRange = "over100"
)

func ParsePriceRange(s string) (PriceRange, error) {
	switch p := PriceRange(strings.ToLower(strings.TrimSpace(s))); p {
	case PriceFree, PriceUnder50, Price50To100, PriceOver100:
		return p, nil
	}
	return "", fmt.Errorf("unknown price range %q", s)
}

// TimeOfDay is a named start-hour bucket.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch t := TimeOfDay(strings.ToLower(strings.TrimSpace(s))); t {
	case Morning, Afternoon, Evening:
		return t, nil
	}
	return "", fmt.Errorf("unknown time of day %q", s)
}

// SortKey selects the comparator applied by the listing engine.
type SortKey string

const (
	SortNameAsc      SortKey = "name-asc"
	SortNameDesc     SortKey = "name-desc"
	SortPriceAsc     SortKey = "price-asc"
	SortPriceDesc    SortKey = "price-desc"
	SortRatingDesc   SortKey = "rating-desc"
	SortStudentsDesc SortKey = "students-desc"
	SortNewest       SortKey = "newest"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortStudentsDesc, SortNewest:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// DefaultSort is the ordering a listing uses when the client sends none.
func DefaultSort(k Kind) SortKey {
	if k == KindClassroom {
		return SortNewest
	}
	return SortRatingDesc
}

// DefaultPageSize mirrors the grid widths of the listing pages.
func DefaultPageSize(k Kind) int {
	if k == KindCourse {
		return 9
	}
	return 6
}
