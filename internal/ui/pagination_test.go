package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginator(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		perPage   int
		page      int
		wantPages int
		wantPage  int
	}{
		{"empty list has one page", 0, 10, 1, 1, 1},
		{"exact fit", 20, 10, 2, 2, 2},
		{"partial last page", 21, 10, 3, 3, 3},
		{"page below range", 50, 10, -4, 5, 1},
		{"page above range", 50, 10, 99, 5, 5},
		{"non-positive per page uses default", 25, 0, 3, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginator(tt.total, tt.perPage, tt.page)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantPage, p.CurrentPage)
		})
	}
}

func TestPaginator_ClampsUnderIncrementAndDecrement(t *testing.T) {
	p := NewPaginator(25, 10, 1)

	p = p.Prev()
	assert.Equal(t, 1, p.CurrentPage)
	assert.False(t, p.HasPrev())

	p = p.Next().Next().Next().Next()
	assert.Equal(t, 3, p.CurrentPage)
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrev())

	for i := 0; i < 10; i++ {
		p = p.Prev()
		assert.GreaterOrEqual(t, p.CurrentPage, 1)
		assert.LessOrEqual(t, p.CurrentPage, p.TotalPages)
	}
}

func TestPaginator_PagesAndSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	p := NewPaginator(len(items), 3, 3)

	assert.Equal(t, []int{1, 2, 3}, p.Pages())
	assert.Equal(t, 6, p.Offset())
	assert.Equal(t, []int{7}, Slice(items, p))
	assert.Equal(t, []int{4, 5, 6}, Slice(items, p.Prev()))
	assert.Equal(t, 2, p.PrevPage())
	assert.Equal(t, 3, p.NextPage())

	assert.Nil(t, Slice([]int{}, NewPaginator(0, 3, 1)))
}
