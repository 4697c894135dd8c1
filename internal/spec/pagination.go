package spec

const (
	// DefaultPage is the first page; pages are 1-indexed.
	DefaultPage = 1
	// DefaultPageSize is used when a request does not name a size.
	DefaultPageSize = 10
	// MaxPageSize caps every page request.
	MaxPageSize = 100
)

// Pagination holds the raw, user-facing page request. Raw values are kept as
// given and normalized on every read, so out-of-range input never fails a
// request.
type Pagination struct {
	Page int `form:"page,default=1" json:"-"`
	Size int `form:"size,default=10" json:"-"`
}

// NewPagination returns a Pagination with the default page and size.
func NewPagination() Pagination {
	return Pagination{Page: DefaultPage, Size: DefaultPageSize}
}

// PageNumber returns the 1-indexed page, never less than 1.
func (p Pagination) PageNumber() int {
	return max(p.Page, 1)
}

// PageSize returns the page size clamped to [1, MaxPageSize].
func (p Pagination) PageSize() int {
	return min(max(p.Size, 1), MaxPageSize)
}

// Offset returns the zero-based row offset of the first row of the page.
func (p Pagination) Offset() int {
	return (p.PageNumber() - 1) * p.PageSize()
}

// Limit returns the maximum number of rows of the page.
func (p Pagination) Limit() int {
	return p.PageSize()
}
