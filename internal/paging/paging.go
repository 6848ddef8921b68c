// Package paging keeps the page cursor of list views.
package paging

// DefaultSize is the page size the admin views request.
const DefaultSize = 5

// Pager is the current page of a list and how many pages exist.
// Page is 1-based.
type Pager struct {
	Page       int
	TotalPages int
}

// FromWire builds a pager from a backend response. zeroBased marks
// endpoints that count pages from 0.
func FromWire(page, totalPages int, zeroBased bool) Pager {
	if zeroBased {
		page++
	}
	p := Pager{TotalPages: totalPages}
	p.Page = p.Clamp(page)
	return p
}

// Last returns N, treating an empty list as one page.
func (p Pager) Last() int {
	if p.TotalPages < 1 {
		return 1
	}
	return p.TotalPages
}

// Clamp returns page limited to [1, N].
func (p Pager) Clamp(page int) int {
	if page < 1 {
		return 1
	}
	if last := p.Last(); page > last {
		return last
	}
	return page
}

// HasPrev is false on the first page.
func (p Pager) HasPrev() bool {
	return p.Clamp(p.Page) > 1
}

// HasNext is false on the last page.
func (p Pager) HasNext() bool {
	return p.Clamp(p.Page) < p.Last()
}

// Next returns the following page, or the last one.
func (p Pager) Next() int {
	return p.Clamp(p.Clamp(p.Page) + 1)
}

// Prev returns the preceding page, or the first one.
func (p Pager) Prev() int {
	return p.Clamp(p.Clamp(p.Page) - 1)
}

// Offset is the index of the first item of the page for size items per page.
func (p Pager) Offset(size int) int {
	return (p.Clamp(p.Page) - 1) * size
}
