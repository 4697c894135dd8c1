package spec

import (
	"errors"
	"strings"

	"gorm.io/gorm/clause"
)

var (
	// ErrUnknownField is returned when a predicate names a field the entity
	// does not map.
	ErrUnknownField = errors.New("unknown entity field")

	// ErrDegenerate is returned by a search clause that can match nothing.
	// Executors answer such a specification without querying the store.
	ErrDegenerate = errors.New("degenerate filter")
)

// MatchType selects how a search term is compared with a field. The zero
// value is Like.
type MatchType int

const (
	Like MatchType = iota
	Equal
	StartsWith
	EndsWith
)

// likeEscaper escapes LIKE wildcards so a term always matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Lifecycle holds the optional default filters of a specification. A nil
// field means "no filter".
type Lifecycle struct {
	Deleted  *bool
	Archived *bool
	ID       any
}

// Conjunction combines the non-nil expressions with AND. It returns nil when
// nothing remains, which stands for the always-true condition.
func Conjunction(exprs ...clause.Expression) clause.Expression {
	kept := compact(exprs)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return clause.AndConditions{Exprs: kept}
}

// Disjunction combines the non-nil expressions with OR. A single expression
// is returned as is: gorm renders a one-element OR group as an OR joiner.
func Disjunction(exprs ...clause.Expression) clause.Expression {
	kept := compact(exprs)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return clause.OrConditions{Exprs: kept}
}

// Defaults builds the lifecycle conditions in fixed order: deleted, archived,
// identity.
func Defaults(e *Entity, l Lifecycle) ([]clause.Expression, error) {
	var exprs []clause.Expression
	if l.Deleted != nil {
		eq, err := Equals(e, "deleted", *l.Deleted)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, eq)
	}
	if l.Archived != nil {
		eq, err := Equals(e, "archived", *l.Archived)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, eq)
	}
	if l.ID != nil {
		exprs = append(exprs, clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: e.PrimaryColumn()},
			Value:  l.ID,
		})
	}
	return exprs, nil
}

// Equals returns field = value.
func Equals(e *Entity, field string, value any) (clause.Expression, error) {
	col, err := e.column(field)
	if err != nil {
		return nil, err
	}
	return clause.Eq{Column: col, Value: value}, nil
}

// OrderBy validates p's sort field against e. It reports false when no sort
// was requested or the field is not mapped; an invalid sort is never an error.
func OrderBy(e *Entity, p *Params) (clause.OrderByColumn, bool) {
	name := p.SortBy()
	if name == "" {
		return clause.OrderByColumn{}, false
	}
	col, err := e.column(name)
	if err != nil {
		return clause.OrderByColumn{}, false
	}
	return clause.OrderByColumn{Column: col, Desc: p.Direction() == Desc}, true
}

// Search ANDs a free-text condition onto base. The search string is split on
// whitespace; a row matches when any term matches any of fields. An empty
// search leaves base unchanged.
func Search(base clause.Expression, e *Entity, search string, match MatchType, fields ...string) (clause.Expression, error) {
	terms := strings.Fields(strings.ToLower(search))
	if len(terms) == 0 {
		return base, nil
	}

	cols := make([]clause.Column, 0, len(fields))
	for _, f := range fields {
		col, err := e.column(f)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return nil, ErrDegenerate
	}

	groups := make([]clause.Expression, 0, len(terms))
	for _, term := range terms {
		matches := make([]clause.Expression, 0, len(cols))
		for _, col := range cols {
			matches = append(matches, matchTerm(col, term, match))
		}
		groups = append(groups, Disjunction(matches...))
	}
	return Conjunction(base, Disjunction(groups...)), nil
}

// Discriminated is implemented by entity subtypes stored in a shared table.
type Discriminated interface {
	DiscriminatorValue() string
}

// TypeIs matches rows whose discriminator column holds subtype's value.
func TypeIs(e *Entity, column string, subtype Discriminated) (clause.Expression, error) {
	return Equals(e, column, subtype.DiscriminatorValue())
}

func matchTerm(col clause.Column, term string, match MatchType) clause.Expression {
	if match == Equal {
		return clause.Expr{SQL: "LOWER(?) = ?", Vars: []any{col, term}}
	}
	escaped := likeEscaper.Replace(term)
	var pattern string
	switch match {
	case StartsWith:
		pattern = escaped + "%"
	case EndsWith:
		pattern = "%" + escaped
	default:
		pattern = "%" + escaped + "%"
	}
	return clause.Expr{SQL: `LOWER(?) LIKE ? ESCAPE '\'`, Vars: []any{col, pattern}}
}

func compact(exprs []clause.Expression) []clause.Expression {
	kept := make([]clause.Expression, 0, len(exprs))
	for _, expr := range exprs {
		if expr != nil {
			kept = append(kept, expr)
		}
	}
	return kept
}
