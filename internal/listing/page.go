package listing

// Page selects one window of a sorted result.  Number is 1-based.
type Page struct {
	Number int `json:"currentPage"`
	Size   int `json:"pageSize"`
}

// TotalPages is ceil(total / size), or 0 when size is not positive.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// bounds returns the half-open window [lo, hi) of p over n items.  A page
// past the end, a page below 1 or a non-positive size give an empty
// window.
func (p Page) bounds(n int) (lo, hi int) {
	if p.Number < 1 || p.Size < 1 {
		return 0, 0
	}
	lo = (p.Number - 1) * p.Size
	if lo >= n {
		return 0, 0
	}
	hi = lo + p.Size
	if hi > n {
		hi = n
	}
	return lo, hi
}

// ClampPage moves number into [1, TotalPages(total, size)] so callers
// never render a blank page for a non-empty result.  With no results it
// returns 1.
func ClampPage(number, size, total int) int {
	last := TotalPages(total, size)
	if last == 0 {
		return 1
	}
	if number < 1 {
		return 1
	}
	if number > last {
		return last
	}
	return number
}
