package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day int) time.Time {
	return time.Date(2024, 6, day, 9, 0, 0, 0, time.UTC)
}

func TestFilterMatchesPrefixCaseInsensitive(t *testing.T) {
	rows := []Record{
		{Name: "Ann", Email: "ann@x.com", CreatedAt: at(1)},
		{Name: "Bob", Email: "bob@x.com", Phone: "555-0100", CreatedAt: at(2)},
		{Name: "Joanne", Email: "jo@x.com", CreatedAt: at(3)},
	}

	got := Filter{Search: "  AN "}.Apply(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Ann", got[0].Name)

	got = Filter{Search: "555"}.Apply(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].Name)

	assert.Len(t, Filter{}.Apply(rows), 3)
	assert.True(t, Filter{Search: "  "}.Empty())
}

func TestFilterDateBoundsAreInclusive(t *testing.T) {
	from, err := ParseDateBound("2024-06-02", false)
	require.NoError(t, err)
	to, err := ParseDateBound("2024-06-02", true)
	require.NoError(t, err)

	f := Filter{From: from, To: to}
	assert.False(t, f.Match(Record{CreatedAt: at(1)}))
	assert.True(t, f.Match(Record{CreatedAt: at(2)}))
	assert.True(t, f.Match(Record{CreatedAt: time.Date(2024, 6, 2, 23, 59, 59, 0, time.UTC)}))
	assert.False(t, f.Match(Record{CreatedAt: at(3)}))
}

func TestParseDateBound(t *testing.T) {
	got, err := ParseDateBound("", false)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDateBound("2024-06-10T08:30:00Z", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC), got.UTC())

	_, err = ParseDateBound("10/06/2024", false)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
