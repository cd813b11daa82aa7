package pagination

// Page describes one window of an offset-paginated listing. Pages are 1-based.
type Page struct {
	Number int
	Size   int
	Total  int64
}

func New(number, size int, total int64) Page {
	if size < 1 {
		size = 1
	}
	if number < 1 {
		number = 1
	}
	if total < 0 {
		total = 0
	}
	return Page{Number: number, Size: size, Total: total}
}

// TotalPages never reports fewer than one page, even for an empty listing.
func (p Page) TotalPages() int {
	if p.Total <= 0 || p.Size < 1 {
		return 1
	}
	size := int64(p.Size)
	return int((p.Total + size - 1) / size)
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Range returns the inclusive row indexes [from, to] the page selects.
func (p Page) Range() (from, to int) {
	from = p.Offset()
	return from, from + p.Size - 1
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages()
}

// Clamp pulls the page number back inside [1, TotalPages].
func (p Page) Clamp() Page {
	if total := p.TotalPages(); p.Number > total {
		p.Number = total
	}
	if p.Number < 1 {
		p.Number = 1
	}
	return p
}

// Limits bounds the page size accepted from query strings.
type Limits struct {
	Default int
	Max     int
}

func (l Limits) Normalize(limit int) int {
	if limit <= 0 {
		return l.Default
	}
	if l.Max > 0 && limit > l.Max {
		return l.Max
	}
	return limit
}
