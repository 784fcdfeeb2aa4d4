package entity

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps "asc" to SortAsc and anything else to SortDesc.
func ParseSortOrder(s string) SortOrder {
	if s == string(SortAsc) {
		return SortAsc
	}

	return SortDesc
}

// PageRequest is a 1-based page of a list query.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page to >= 1 and limit to [1, maxLimit], using defaultLimit when limit <= 0.
func NewPageRequest(page, limit, defaultLimit, maxLimit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return PageRequest{Page: page, Limit: limit}
}

// Offset is the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes the page returned alongside a list.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for total rows.
func NewPagination(req PageRequest, total int64) Pagination {
	pages := 0
	if req.Limit > 0 {
		pages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}

	return Pagination{Page: req.Page, Limit: req.Limit, Total: total, Pages: pages}
}

// Page is one page of items with its pagination.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}
