package spec

import "strings"

// SortOrder is the direction of a sort instruction.
type SortOrder string

const (
	Asc  SortOrder = "ASC"
	Desc SortOrder = "DESC"
)

// ParseSortOrder parses s case-insensitively. Anything other than "desc"
// yields Asc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Label returns the message key used to present the order to users.
func (o SortOrder) Label() string {
	if o.Normalize() == Desc {
		return "sort.order.desc"
	}
	return "sort.order.asc"
}

// Normalize maps an unset or unrecognized order to Asc.
func (o SortOrder) Normalize() SortOrder {
	return ParseSortOrder(string(o))
}

// Params extends Pagination with free-text search and sorting. Like the page
// fields, search and sort are stored raw and normalized on read.
type Params struct {
	Pagination
	Search string    `form:"search" json:"-"`
	Sort   string    `form:"sort_by" json:"-"`
	Order  SortOrder `form:"sort_order" json:"-"`
}

// NewParams returns Params with default pagination and ascending order.
func NewParams() Params {
	return Params{Pagination: NewPagination(), Order: Asc}
}

// SearchTerm returns the trimmed, lower-cased search string ("" when unset).
func (p *Params) SearchTerm() string {
	return strings.ToLower(strings.TrimSpace(p.Search))
}

// SortBy returns the trimmed sort field name ("" when unset).
func (p *Params) SortBy() string {
	return strings.TrimSpace(p.Sort)
}

// Direction returns the normalized sort order.
func (p *Params) Direction() SortOrder {
	return p.Order.Normalize()
}
