package spec

import "gorm.io/gorm/clause"

// Specification describes one query against one entity type: pagination,
// sorting, free-text search, lifecycle filters and an optional projection.
// It is built per request and read by a single executor call.
type Specification interface {
	// Parameters returns the pagination, sort and search parameters.
	Parameters() *Params
	// Lifecycle returns the deleted/archived/identity filters.
	Lifecycle() Lifecycle
	// Projection returns the field names to load, or nil for all fields.
	Projection() []string
	// OfSearch returns the entity-specific search clause. A nil clause
	// matches every row; ErrDegenerate means no row can match.
	OfSearch(e *Entity) (clause.Expression, error)
}

// Base carries everything a Specification needs except its search clause.
// Concrete specifications embed it and implement OfSearch.
type Base struct {
	Params   `cachekey:"params"`
	Deleted  *bool    `form:"deleted" json:"deleted,omitempty"`
	Archived *bool    `form:"archived" json:"archived,omitempty"`
	ID       *uint    `form:"id" json:"id,omitempty"`
	Fields   []string `form:"fields" json:"fields,omitempty"`
}

// NewBase returns a Base with default parameters and no filters.
func NewBase() Base {
	return Base{Params: NewParams()}
}

// Parameters implements Specification.
func (b *Base) Parameters() *Params { return &b.Params }

// Lifecycle implements Specification.
func (b *Base) Lifecycle() Lifecycle {
	l := Lifecycle{Deleted: b.Deleted, Archived: b.Archived}
	if b.ID != nil {
		l.ID = *b.ID
	}
	return l
}

// Projection implements Specification.
func (b *Base) Projection() []string { return b.Fields }

// Select replaces the projection. No fields means all fields.
func (b *Base) Select(fields ...string) { b.Fields = fields }

// Basic is a Specification without an entity-specific search clause.
type Basic struct {
	Base
}

// OfSearch implements Specification.
func (b *Basic) OfSearch(*Entity) (clause.Expression, error) { return nil, nil }

// Bool returns a pointer to v, for setting optional filters.
func Bool(v bool) *bool { return &v }
