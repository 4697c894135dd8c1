package spec

import "math"

// Page is one page of query results. Page is 1-indexed; TotalElements counts
// every row matching the filter, regardless of pagination.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

// NewPage assembles a Page from the rows of the current page and the total
// match count.
func NewPage[T any](content []T, total int64, p Pagination) *Page[T] {
	if content == nil {
		content = []T{}
	}
	size := p.PageSize()
	page := p.PageNumber()
	totalPages := int(math.Ceil(float64(total) / float64(size)))

	return &Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 1,
		Last:          page >= totalPages,
		Empty:         len(content) == 0,
	}
}

// EmptyPage returns a page with no content and no matches.
func EmptyPage[T any](p Pagination) *Page[T] {
	return NewPage[T](nil, 0, p)
}
