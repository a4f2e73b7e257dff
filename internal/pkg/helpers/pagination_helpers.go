package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emrekoc/registrar/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // page numbers are 1-based
)

// NormalizePageSize clamps a requested page size into [1, MaxPageSize].
// Non-positive or oversized values fall back to DefaultPageSize. Every
// helper below normalizes through here, so one effective size flows
// through page math and OFFSET/LIMIT alike.
func NormalizePageSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return DefaultPageSize
	}
	return size
}

// ClampPage clamps a 1-based page number against the total item count.
// Pages below 1 clamp to 1; pages beyond the last clamp to the last page.
// An empty result set clamps to page 1 so the offset stays at zero.
func ClampPage(page, size int, totalItems int64) int {
	if page < 1 {
		return DefaultPage
	}
	totalPages := TotalPages(totalItems, size)
	if totalPages > 0 && page > totalPages {
		return totalPages
	}
	if totalPages == 0 {
		return DefaultPage
	}
	return page
}

// TotalPages computes ceil(totalItems / size). Zero items means zero pages.
func TotalPages(totalItems int64, size int) int {
	size = NormalizePageSize(size)
	if totalItems <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalItems) / float64(size)))
}

// CalculateOffsetLimit converts a clamped 1-based page number into SQL
// OFFSET/LIMIT values.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	limit = NormalizePageSize(size)
	if page < 1 {
		page = DefaultPage
	}
	offset = uint64((page - 1) * limit)
	return offset, limit
}

// NewPaginationInfo creates a standard PaginationInfo DTO from the total item
// count and the requested page, applying the clamping rules above.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	size = NormalizePageSize(size)
	return dto.PaginationInfo{
		CurrentPage: ClampPage(page, size, totalItems),
		PageSize:    size,
		TotalItems:  totalItems,
		TotalPages:  TotalPages(totalItems, size),
	}
}

// ParsePaginationParams extracts and validates pagination parameters from the
// request. Invalid values fall back to the defaults rather than failing.
func ParsePaginationParams(c *gin.Context, defaultSize int) (page, size int) {
	if defaultSize <= 0 || defaultSize > MaxPageSize {
		defaultSize = DefaultPageSize
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = defaultSize
	}

	return page, size
}
