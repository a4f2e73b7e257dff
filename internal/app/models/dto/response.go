package dto

import "time"

// APIResponse is the standard envelope for successful responses.
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// PaginationInfo describes one page of a larger ordered result set.
// CurrentPage is 1-based. An empty result set has TotalPages 0.
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// HasPrevious reports whether a page precedes the current one.
func (p PaginationInfo) HasPrevious() bool {
	return p.TotalPages > 0 && p.CurrentPage > 1
}

// HasNext reports whether a page follows the current one.
func (p PaginationInfo) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// PagedResponse is the payload for list endpoints.
type PagedResponse struct {
	Items       interface{}    `json:"items"`
	Pagination  PaginationInfo `json:"pagination"`
	HasPrevious bool           `json:"hasPrevious"`
	HasNext     bool           `json:"hasNext"`
}

// NewPagedResponse assembles a PagedResponse from items and page metadata.
func NewPagedResponse(items interface{}, pagination PaginationInfo) PagedResponse {
	return PagedResponse{
		Items:       items,
		Pagination:  pagination,
		HasPrevious: pagination.HasPrevious(),
		HasNext:     pagination.HasNext(),
	}
}
