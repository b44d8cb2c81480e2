package ui

// Paginator is the page window over an already fetched list. CurrentPage is
// always within [1, TotalPages] and TotalPages is at least 1.
type Paginator struct {
	CurrentPage int
	TotalPages  int
	PerPage     int
	TotalItems  int
}

func NewPaginator(totalItems, perPage, page int) Paginator {
	if perPage <= 0 {
		perPage = 10
	}
	if totalItems < 0 {
		totalItems = 0
	}
	totalPages := (totalItems + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	p := Paginator{TotalPages: totalPages, PerPage: perPage, TotalItems: totalItems}
	p.CurrentPage = p.clamp(page)
	return p
}

func (p Paginator) clamp(page int) int {
	if page < 1 {
		return 1
	}
	if page > p.TotalPages {
		return p.TotalPages
	}
	return page
}

// Next returns the paginator moved one page forward, stopping at the last page.
func (p Paginator) Next() Paginator {
	p.CurrentPage = p.clamp(p.CurrentPage + 1)
	return p
}

// Prev returns the paginator moved one page back, stopping at page 1.
func (p Paginator) Prev() Paginator {
	p.CurrentPage = p.clamp(p.CurrentPage - 1)
	return p
}

func (p Paginator) HasNext() bool { return p.CurrentPage < p.TotalPages }
func (p Paginator) HasPrev() bool { return p.CurrentPage > 1 }

func (p Paginator) NextPage() int { return p.Next().CurrentPage }
func (p Paginator) PrevPage() int { return p.Prev().CurrentPage }

// Pages is the button list [1..TotalPages].
func (p Paginator) Pages() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Offset is the index of the first item on the current page.
func (p Paginator) Offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}

// Slice returns the items on the paginator's current page.
func Slice[T any](items []T, p Paginator) []T {
	start := p.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + p.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
