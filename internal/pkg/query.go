package pkg

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gospec/internal/spec"
)

// includeParam names the relations to eager-load, e.g. ?include=company,notes.
const includeParam = "include"

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// BindSpec fills s from the query string. Page fields, search, sort and
// lifecycle filters bind through their form tags; out-of-range values are
// kept raw and normalized when read. The projection list accepts both
// repeated and comma-separated values.
func BindSpec(c *gin.Context, s spec.Specification) error {
	if err := c.ShouldBindQuery(s); err != nil {
		return err
	}
	if p, ok := s.(interface{ Select(...string) }); ok {
		p.Select(splitNames(s.Projection())...)
	}
	return nil
}

// Attributes returns the relation names requested through ?include.
func Attributes(c *gin.Context) []string {
	return splitNames(c.QueryArray(includeParam))
}

// splitNames flattens comma-separated values and drops anything that is not
// a plain identifier. Order is kept and duplicates removed.
func splitNames(values []string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, v := range values {
		for name := range strings.SplitSeq(v, ",") {
			name = strings.TrimSpace(name)
			if !validFieldName.MatchString(name) || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
