package dashboard

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/Henok-Haile/crm-dashboard/pkg/db/pagination"
)

const DefaultPageSize = 5

// ViewState is the user-controlled state of the listing. The zero value is
// normalized to page 1, name-asc, no filters.
type ViewState struct {
	Page     int
	PageSize int
	Sort     customerdomain.Sort
	Search   string
	// FromInput and ToInput keep the raw date inputs for redisplay.
	FromInput string
	ToInput   string
	From      *time.Time
	To        *time.Time
}

func DefaultViewState(pageSize int) ViewState {
	return ViewState{Page: 1, PageSize: pageSize, Sort: customerdomain.SortNameAsc}.normalize()
}

// ParseViewState reads page, sort, q, from and to. Malformed values fall
// back to their defaults.
func ParseViewState(values url.Values, pageSize int) ViewState {
	v := DefaultViewState(pageSize)

	if page, err := strconv.Atoi(strings.TrimSpace(values.Get("page"))); err == nil && page > 0 {
		v.Page = page
	}
	if sort, ok := customerdomain.ParseSort(strings.TrimSpace(values.Get("sort"))); ok {
		v.Sort = sort
	}
	v.Search = values.Get("q")
	v = v.WithDates(values.Get("from"), values.Get("to"))
	return v
}

// WithDates sets the date bounds from raw inputs, dropping unparsable ones.
func (v ViewState) WithDates(fromInput, toInput string) ViewState {
	v.FromInput, v.From = "", nil
	v.ToInput, v.To = "", nil
	if from, err := ParseDateBound(fromInput, false); err == nil && from != nil {
		v.FromInput, v.From = strings.TrimSpace(fromInput), from
	}
	if to, err := ParseDateBound(toInput, true); err == nil && to != nil {
		v.ToInput, v.To = strings.TrimSpace(toInput), to
	}
	return v
}

func (v ViewState) WithPage(page int) ViewState {
	v.Page = page
	return v.normalize()
}

func (v ViewState) WithSort(sort customerdomain.Sort) ViewState {
	v.Sort = sort
	return v.normalize()
}

func (v ViewState) WithSearch(search string) ViewState {
	v.Search = search
	return v
}

// Filter is the display filter this view applies.
func (v ViewState) Filter() Filter {
	return Filter{Search: v.Search, From: v.From, To: v.To}
}

// Query encodes the non-default parts of the view as URL values.
func (v ViewState) Query() url.Values {
	v = v.normalize()
	values := url.Values{}
	if v.Page > 1 {
		values.Set("page", strconv.Itoa(v.Page))
	}
	if v.Sort != customerdomain.SortNameAsc {
		values.Set("sort", string(v.Sort))
	}
	if s := strings.TrimSpace(v.Search); s != "" {
		values.Set("q", s)
	}
	if v.FromInput != "" {
		values.Set("from", v.FromInput)
	}
	if v.ToInput != "" {
		values.Set("to", v.ToInput)
	}
	return values
}

// Encode returns Query as a URL query string.
func (v ViewState) Encode() string {
	return v.Query().Encode()
}

func (v ViewState) normalize() ViewState {
	if v.Page < 1 {
		v.Page = 1
	}
	if v.PageSize < 1 {
		v.PageSize = DefaultPageSize
	}
	if sort, ok := customerdomain.ParseSort(string(v.Sort)); ok {
		v.Sort = sort
	} else {
		v.Sort = customerdomain.SortNameAsc
	}
	return v
}

// fetchKey identifies the backend request a view needs. Views with equal
// keys differ only in display narrowing.
type fetchKey struct {
	page     int
	pageSize int
	sort     customerdomain.Sort
	search   string
	from     string
	to       string
}

func (v ViewState) fetchKey(serverFilters bool) fetchKey {
	v = v.normalize()
	key := fetchKey{page: v.Page, pageSize: v.PageSize, sort: v.Sort}
	if serverFilters {
		key.search = v.Filter().Term()
		key.from = v.FromInput
		key.to = v.ToInput
	}
	return key
}

// Pager is the navigation state of one fetched page.
type Pager struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

func NewPager(page, size int, count int64) Pager {
	p := pagination.New(page, size, count)
	return Pager{
		Page:       p.Number,
		TotalPages: p.TotalPages(),
		HasPrev:    p.HasPrev(),
		HasNext:    p.HasNext(),
	}
}

// PrevPage is the page the Previous control moves to, clamped into range.
func (p Pager) PrevPage() int {
	prev := p.Page - 1
	if prev > p.TotalPages {
		prev = p.TotalPages
	}
	if prev < 1 {
		prev = 1
	}
	return prev
}

// NextPage is the page the Next control moves to, clamped into range.
func (p Pager) NextPage() int {
	if p.Page >= p.TotalPages {
		return p.Page
	}
	return p.Page + 1
}
