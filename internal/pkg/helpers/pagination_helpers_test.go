package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int64
		size       int
		want       int
	}{
		{name: "empty set has zero pages", totalItems: 0, size: 10, want: 0},
		{name: "exact multiple", totalItems: 30, size: 10, want: 3},
		{name: "partial last page rounds up", totalItems: 31, size: 10, want: 4},
		{name: "single item", totalItems: 1, size: 10, want: 1},
		{name: "size one", totalItems: 8, size: 1, want: 8},
		{name: "invalid size falls back to default", totalItems: 25, size: 0, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.totalItems, tt.size))
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		size       int
		totalItems int64
		want       int
	}{
		{name: "page zero clamps to first", page: 0, size: 10, totalItems: 50, want: 1},
		{name: "negative page clamps to first", page: -3, size: 10, totalItems: 50, want: 1},
		{name: "page beyond last clamps to last", page: 9, size: 10, totalItems: 50, want: 5},
		{name: "page within range unchanged", page: 3, size: 10, totalItems: 50, want: 3},
		{name: "last page unchanged", page: 5, size: 10, totalItems: 50, want: 5},
		{name: "empty set clamps to first", page: 7, size: 10, totalItems: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPage(tt.page, tt.size, tt.totalItems))
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(1, 10)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, 10, limit)

	offset, limit = CalculateOffsetLimit(3, 25)
	assert.Equal(t, uint64(50), offset)
	assert.Equal(t, 25, limit)

	// Oversized page size falls back to the default.
	offset, limit = CalculateOffsetLimit(2, MaxPageSize+1)
	assert.Equal(t, uint64(DefaultPageSize), offset)
	assert.Equal(t, DefaultPageSize, limit)

	// Page below one behaves like page one.
	offset, _ = CalculateOffsetLimit(0, 10)
	assert.Equal(t, uint64(0), offset)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(8, 2, 3)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 3, info.PageSize)
	assert.Equal(t, int64(8), info.TotalItems)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasPrevious())
	assert.True(t, info.HasNext())

	last := NewPaginationInfo(8, 3, 3)
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasPrevious())
	assert.False(t, empty.HasNext())
}

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NormalizePageSize(0))
	assert.Equal(t, DefaultPageSize, NormalizePageSize(-5))
	assert.Equal(t, DefaultPageSize, NormalizePageSize(MaxPageSize+1))
	assert.Equal(t, 1, NormalizePageSize(1))
	assert.Equal(t, MaxPageSize, NormalizePageSize(MaxPageSize))
}

// An out-of-range size must resolve to the same effective size in page
// math and in OFFSET/LIMIT, or the clamped page number and the computed
// offset drift apart.
func TestOversizedPageSizeIsConsistentAcrossHelpers(t *testing.T) {
	const oversized = MaxPageSize + 50

	assert.Equal(t, 3, TotalPages(25, oversized))
	assert.Equal(t, 3, ClampPage(9, oversized, 25))

	offset, limit := CalculateOffsetLimit(3, oversized)
	assert.Equal(t, DefaultPageSize, limit)
	assert.Equal(t, uint64(20), offset)
}
