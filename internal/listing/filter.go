// Package listing implements the catalog query engine shared by the
// course, classroom and teacher listings: filter, stable sort and
// paginate an in-memory slice of items.  Everything in this package
// except the loader is synchronous and free of side effects.
package listing

import (
	"strings"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// Filters holds the optional predicates of a listing query.  A zero
// field places no constraint on the result; set fields are combined
// with AND.
type Filters struct {
	Search     string
	Level      model.Level
	Category   string
	PriceRange model.PriceRange
	MinRating  float64
	Status     model.Status
	TimeOfDay  model.TimeOfDay
}

// IsZero reports whether no predicate is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Match reports whether it satisfies every set predicate.
func (f Filters) Match(it model.Item) bool {
	if q := strings.TrimSpace(f.Search); q != "" && !matchSearch(it, strings.ToLower(q)) {
		return false
	}
	if f.Level != "" && it.Level != f.Level {
		return false
	}
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	if f.Status != "" && it.Status != f.Status {
		return false
	}
	if f.PriceRange != "" && !InPriceRange(f.PriceRange, it.Price) {
		return false
	}
	if f.MinRating > 0 && it.Rating < f.MinRating {
		return false
	}
	if f.TimeOfDay != "" {
		h, ok := it.StartHour()
		if !ok || !InTimeOfDay(f.TimeOfDay, h) {
			return false
		}
	}
	return true
}

// matchSearch expects q already lower-cased.
func matchSearch(it model.Item, q string) bool {
	return strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Instructor.Name), q) ||
		strings.Contains(strings.ToLower(it.Description), q)
}

// InPriceRange places price into exactly one bucket:
//
//	free     price == 0
//	under50  price < 50
//	50to100  50 <= price <= 100
//	over100  price > 100
//
// free and under50 overlap at zero; every other edge belongs to one bucket.
func InPriceRange(r model.PriceRange, price float64) bool {
	switch r {
	case model.PriceFree:
		return price == 0
	case model.PriceUnder50:
		return price < 50
	case model.Price50To100:
		return price >= 50 && price <= 100
	case model.PriceOver100:
		return price > 100
	}
	return false
}

// InTimeOfDay buckets a start hour.  Hours before 6 belong to no bucket.
func InTimeOfDay(t model.TimeOfDay, hour int) bool {
	switch t {
	case model.Morning:
		return hour >= 6 && hour < 12
	case model.Afternoon:
		return hour >= 12 && hour < 18
	case model.Evening:
		return hour >= 18 && hour < 24
	}
	return false
}

// Filter returns the items matching f in their original order.  The
// input slice is never modified.
func Filter(items []model.Item, f Filters) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
