package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/simp-lee/gospec/internal/spec"
)

// baseColumns are always loaded by a projected query.
var baseColumns = []string{"id", "sk", "pk", "deleted", "archived", "created_at", "updated_at"}

// Executor compiles specifications against one entity type and runs them.
//
// Count and data queries are built from the same compiled filter; the count
// query never carries ORDER BY, projection, or eager loading.
type Executor[T any] struct {
	db     *gorm.DB
	entity *spec.Entity
}

// NewExecutor parses T's schema once and returns an executor bound to db.
func NewExecutor[T any](db *gorm.DB) (*Executor[T], error) {
	entity, err := spec.NewEntity(db, new(T))
	if err != nil {
		return nil, err
	}
	return &Executor[T]{db: db, entity: entity}, nil
}

// Entity returns the column mapping table of T.
func (x *Executor[T]) Entity() *spec.Entity { return x.entity }

// FindOne returns the first row matching s, or nil when nothing matches.
// attrs names relations to load with the row.
func (x *Executor[T]) FindOne(ctx context.Context, s spec.Specification, attrs ...string) (*T, error) {
	filter, err := x.Filter(s)
	if errors.Is(err, spec.ErrDegenerate) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	q := x.hydrate(x.project(x.sorted(x.query(ctx, filter), s), s), attrs)

	var rows []T
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// FindAll returns the page of rows matching s selected by its pagination and
// sort parameters, together with the total match count.
func (x *Executor[T]) FindAll(ctx context.Context, s spec.Specification, attrs ...string) (*spec.Page[T], error) {
	p := s.Parameters().Pagination

	filter, err := x.Filter(s)
	if errors.Is(err, spec.ErrDegenerate) {
		return spec.EmptyPage[T](p), nil
	}
	if err != nil {
		return nil, err
	}

	var total int64
	if err := x.query(ctx, filter).Count(&total).Error; err != nil {
		return nil, err
	}
	if total == 0 {
		return spec.EmptyPage[T](p), nil
	}

	q := x.hydrate(x.project(x.sorted(x.query(ctx, filter), s), s), attrs)

	var rows []T
	if err := q.Offset(p.Offset()).Limit(p.Limit()).Find(&rows).Error; err != nil {
		return nil, err
	}
	return spec.NewPage(rows, total, p), nil
}

// Count returns the number of rows matching s, ignoring pagination.
func (x *Executor[T]) Count(ctx context.Context, s spec.Specification) (int64, error) {
	filter, err := x.Filter(s)
	if errors.Is(err, spec.ErrDegenerate) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var total int64
	if err := x.query(ctx, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Exists reports whether any row matches s.
func (x *Executor[T]) Exists(ctx context.Context, s spec.Specification) (bool, error) {
	total, err := x.Count(ctx, s)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// Filter compiles the search clause of s and its lifecycle defaults into one
// condition. A nil condition matches every row.
func (x *Executor[T]) Filter(s spec.Specification) (clause.Expression, error) {
	search, err := s.OfSearch(x.entity)
	if err != nil {
		return nil, err
	}
	defaults, err := spec.Defaults(x.entity, s.Lifecycle())
	if err != nil {
		return nil, err
	}
	return spec.Conjunction(append([]clause.Expression{search}, defaults...)...), nil
}

// query starts a fresh statement so count and data queries never share state.
func (x *Executor[T]) query(ctx context.Context, filter clause.Expression) *gorm.DB {
	q := x.db.WithContext(ctx).Model(new(T))
	if filter != nil {
		q = q.Where(filter)
	}
	return q
}

func (x *Executor[T]) sorted(q *gorm.DB, s spec.Specification) *gorm.DB {
	if col, ok := spec.OrderBy(x.entity, s.Parameters()); ok {
		return q.Order(col)
	}
	return q
}

// project restricts the selected columns to the requested fields plus the
// base columns. Unknown names are skipped; no known name means no projection.
func (x *Executor[T]) project(q *gorm.DB, s spec.Specification) *gorm.DB {
	fields := s.Projection()
	if len(fields) == 0 {
		return q
	}

	seen := make(map[string]bool, len(fields)+len(baseColumns))
	var selects []string
	add := func(name string) {
		col, ok := x.entity.Column(name)
		if !ok || seen[col] {
			return
		}
		seen[col] = true
		selects = append(selects, x.db.Statement.Quote(clause.Column{Table: x.entity.Table(), Name: col}))
	}
	for _, f := range fields {
		add(f)
	}
	if len(selects) == 0 {
		return q
	}
	for _, col := range baseColumns {
		add(col)
	}
	return q.Select(selects)
}

// hydrate eager loads the named relations. To-one relations are joined into
// the same statement; to-many relations are preloaded. Unknown names are
// skipped.
func (x *Executor[T]) hydrate(q *gorm.DB, attrs []string) *gorm.DB {
	seen := make(map[string]bool, len(attrs))
	for _, attr := range attrs {
		name, kind, ok := x.entity.Relation(attr)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		switch kind {
		case schema.BelongsTo, schema.HasOne:
			q = q.Joins(name)
		default:
			q = q.Preload(name)
		}
	}
	return q
}
