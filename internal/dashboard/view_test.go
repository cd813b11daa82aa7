package dashboard

import (
	"net/url"
	"testing"

	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseViewStateDefaults(t *testing.T) {
	v := ParseViewState(url.Values{}, 5)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 5, v.PageSize)
	assert.Equal(t, customerdomain.SortNameAsc, v.Sort)
	assert.Empty(t, v.Encode())
}

func TestParseViewStateToleratesBadValues(t *testing.T) {
	v := ParseViewState(url.Values{
		"page": {"-3"},
		"sort": {"random"},
		"from": {"yesterday"},
	}, 5)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, customerdomain.SortNameAsc, v.Sort)
	assert.Nil(t, v.From)
	assert.Empty(t, v.FromInput)
}

func TestViewStateQueryRoundTrip(t *testing.T) {
	v := DefaultViewState(5).WithPage(3).WithSort(customerdomain.SortLatest).WithSearch("ann").WithDates("2024-06-01", "2024-06-30")

	parsed := ParseViewState(v.Query(), 5)
	assert.Equal(t, 3, parsed.Page)
	assert.Equal(t, customerdomain.SortLatest, parsed.Sort)
	assert.Equal(t, "ann", parsed.Search)
	assert.Equal(t, "2024-06-01", parsed.FromInput)
	assert.Equal(t, "2024-06-30", parsed.ToInput)
}

func TestFetchKeyIgnoresDisplayFiltersOnPageScope(t *testing.T) {
	base := DefaultViewState(5)
	narrowed := base.WithSearch("ann").WithDates("2024-06-01", "")

	assert.Equal(t, base.fetchKey(false), narrowed.fetchKey(false))
	assert.NotEqual(t, base.fetchKey(true), narrowed.fetchKey(true))
	assert.NotEqual(t, base.fetchKey(false), base.WithSort(customerdomain.SortNameDesc).fetchKey(false))
}

func TestPager(t *testing.T) {
	p := NewPager(1, 5, 0)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasPrev)
	assert.False(t, p.HasNext)

	p = NewPager(2, 5, 12)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, 1, p.PrevPage())
	assert.Equal(t, 3, p.NextPage())

	p = NewPager(3, 5, 12)
	assert.False(t, p.HasNext)
	assert.Equal(t, 3, p.NextPage())
}
