package listing

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// Sort orders items in place by key.  The sort is stable so equal items
// keep their input order; an unknown or empty key leaves the slice
// untouched.
func Sort(items []model.Item, key model.SortKey) {
	less := comparator(key)
	if less == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

func comparator(key model.SortKey) func(a, b model.Item) bool {
	switch key {
	case model.SortNameAsc:
		col := collate.New(language.Und)
		return func(a, b model.Item) bool { return col.CompareString(a.Title, b.Title) < 0 }
	case model.SortNameDesc:
		col := collate.New(language.Und)
		return func(a, b model.Item) bool { return col.CompareString(a.Title, b.Title) > 0 }
	case model.SortPriceAsc:
		return func(a, b model.Item) bool { return a.Price < b.Price }
	case model.SortPriceDesc:
		return func(a, b model.Item) bool { return a.Price > b.Price }
	case model.SortRatingDesc:
		return func(a, b model.Item) bool { return a.Rating > b.Rating }
	case model.SortStudentsDesc:
		return func(a, b model.Item) bool { return a.StudentsCount > b.StudentsCount }
	case model.SortNewest:
		return func(a, b model.Item) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	return nil
}
