package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{12, 5, 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, New(1, tc.size, tc.total).TotalPages(), "total=%d size=%d", tc.total, tc.size)
	}
}

func TestPrevNextBoundaries(t *testing.T) {
	first := New(1, 5, 12)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	last := New(3, 5, 12)
	assert.True(t, last.HasPrev())
	assert.False(t, last.HasNext())

	empty := New(1, 5, 0)
	assert.False(t, empty.HasPrev())
	assert.False(t, empty.HasNext())
}

func TestOffsetAndRange(t *testing.T) {
	p := New(2, 5, 12)
	assert.Equal(t, 5, p.Offset())
	from, to := p.Range()
	assert.Equal(t, 5, from)
	assert.Equal(t, 9, to)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2, New(7, 5, 6).Clamp().Number)
	assert.Equal(t, 1, New(3, 5, 0).Clamp().Number)
}

func TestLimitsNormalize(t *testing.T) {
	l := Limits{Default: 5, Max: 100}
	assert.Equal(t, 5, l.Normalize(0))
	assert.Equal(t, 100, l.Normalize(500))
	assert.Equal(t, 20, l.Normalize(20))
}
