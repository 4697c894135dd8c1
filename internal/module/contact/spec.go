package contact

import (
	"gorm.io/gorm/clause"

	"github.com/simp-lee/gospec/internal/spec"
)

// searchFields are matched by the free-text search of a ContactSpec.
var searchFields = []string{"first_name", "last_name", "email"}

// ContactSpec selects contacts. Besides the common parameters it narrows the
// result to one company and matches the search terms against name and email.
type ContactSpec struct {
	spec.Base
	CompanyID *uint `form:"company_id" json:"company_id,omitempty"`
}

// NewSpec returns a ContactSpec with default parameters and no filters.
func NewSpec() *ContactSpec {
	return &ContactSpec{Base: spec.NewBase()}
}

// OfSearch implements spec.Specification.
func (s *ContactSpec) OfSearch(e *spec.Entity) (clause.Expression, error) {
	var base clause.Expression
	if s.CompanyID != nil {
		eq, err := spec.Equals(e, "company_id", *s.CompanyID)
		if err != nil {
			return nil, err
		}
		base = eq
	}
	return spec.Search(base, e, s.SearchTerm(), spec.Like, searchFields...)
}
