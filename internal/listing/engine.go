package listing

import "github.com/iliyamo/nihongo-sekai/internal/model"

// Result is one page of a listing query.  TotalCount counts every item
// that passed the filters, not just the ones on this page.
type Result struct {
	Items      []model.Item
	TotalCount int
	TotalPages int
	Page       Page
}

// Empty distinguishes "nothing matched" from "page past the end".
func (r Result) Empty() bool { return r.TotalCount == 0 }

// Query filters, sorts and paginates items.  It never fails: an
// out-of-range page yields an empty Items slice with the totals intact.
// The input slice is not modified.
func Query(items []model.Item, f Filters, key model.SortKey, p Page) Result {
	matched := Filter(items, f)
	Sort(matched, key)

	lo, hi := p.bounds(len(matched))
	pageItems := make([]model.Item, hi-lo)
	copy(pageItems, matched[lo:hi])

	return Result{
		Items:      pageItems,
		TotalCount: len(matched),
		TotalPages: TotalPages(len(matched), p.Size),
		Page:       p,
	}
}
