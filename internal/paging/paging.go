// Package paging provides windowing math over ordered collections:
// page counts, half-open page slices and a bounded display window of
// page numbers for navigation.
package paging

// WindowSize is the maximum number of page numbers shown for navigation.
const WindowSize = 5

// TotalPages returns ceil(count / pageSize), zero for an empty
// collection or a non-positive page size.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Slice returns the half-open index range [lo, hi) of the 1-based page,
// clipped to the collection bounds. Pages outside 1..TotalPages yield
// an empty range.
func Slice(count, pageSize, page int) (lo, hi int) {
	total := TotalPages(count, pageSize)
	if page < 1 || page > total {
		return 0, 0
	}

	lo = (page - 1) * pageSize
	hi = lo + pageSize
	if hi > count {
		hi = count
	}
	return lo, hi
}

// Window returns the page numbers to display around the current page: a
// run of at most WindowSize numbers centered on current, clamped to
// start no lower than 1, and shifted left near the end so the window
// stays full whenever enough pages exist.
func Window(current, total int) []int {
	if total <= 0 {
		return nil
	}

	size := WindowSize
	if total < size {
		size = total
	}

	start := current - WindowSize/2
	if start < 1 {
		start = 1
	}
	if start+size-1 > total {
		start = total - size + 1
	}

	pages := make([]int, size)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

// Pager tracks a current page over a sized collection. Navigation to
// page 0, negative pages or pages past the end is a no-op, a clamping
// policy rather than an error.
type Pager struct {
	Count    int
	PageSize int
	Current  int
}

// NewPager starts on page 1 (page 0 when the collection is empty).
func NewPager(count, pageSize int) *Pager {
	p := &Pager{Count: count, PageSize: pageSize}
	if p.Total() > 0 {
		p.Current = 1
	}
	return p
}

// Total returns the page count.
func (p *Pager) Total() int {
	return TotalPages(p.Count, p.PageSize)
}

// Goto moves to the requested page when it exists.
func (p *Pager) Goto(page int) {
	if page >= 1 && page <= p.Total() {
		p.Current = page
	}
}

// Slice returns the index range of the current page.
func (p *Pager) Slice() (lo, hi int) {
	return Slice(p.Count, p.PageSize, p.Current)
}

// Window returns the display page numbers around the current page.
func (p *Pager) Window() []int {
	return Window(p.Current, p.Total())
}
