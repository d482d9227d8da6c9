package common

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPageSize is used when no page size is requested
	DefaultPageSize = 20
	// MaxPageSize caps client-requested page sizes
	MaxPageSize = 100
)

// Pagination holds normalized pagination parameters
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the zero-based item offset for the page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePagination extracts and normalizes pagination parameters from a request.
// Out-of-range values fall back to defaults rather than erroring, so list
// views stay renderable with bad query strings.
func ParsePagination(r *http.Request) Pagination {
	p := Pagination{Page: 1, PageSize: DefaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			p.Page = page
		}
	}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			if size > MaxPageSize {
				size = MaxPageSize
			}
			p.PageSize = size
		}
	}

	return p
}

// PageInfo builds PaginationInfo for a result set of the given total size
func (p Pagination) PageInfo(total int) *PaginationInfo {
	totalPages := (total + p.PageSize - 1) / p.PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	return &PaginationInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// Slice applies the pagination window to a slice length, returning the
// start and end indexes to use. The window is clamped to [0, total].
func (p Pagination) Slice(total int) (int, int) {
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}
