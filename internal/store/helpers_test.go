package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/gospec/internal/domain"
	"github.com/simp-lee/gospec/internal/spec"
)

// nameSpec searches contacts by name and email.
type nameSpec struct {
	spec.Base
}

func newNameSpec() *nameSpec { return &nameSpec{Base: spec.NewBase()} }

func (s *nameSpec) OfSearch(e *spec.Entity) (clause.Expression, error) {
	return spec.Search(nil, e, s.SearchTerm(), spec.Like, "first_name", "last_name", "email")
}

// fixedSpec returns a preset search result.
type fixedSpec struct {
	spec.Base
	expr clause.Expression
	err  error
}

func (s *fixedSpec) OfSearch(*spec.Entity) (clause.Expression, error) { return s.expr, s.err }

// setupTestDB creates a single-connection in-memory SQLite database with the
// contact tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.Company{}, &domain.Contact{}, &domain.Note{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newContactExecutor(t *testing.T, db *gorm.DB) *Executor[domain.Contact] {
	t.Helper()
	x, err := NewExecutor[domain.Contact](db)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	return x
}

func createContact(t *testing.T, db *gorm.DB, c *domain.Contact) *domain.Contact {
	t.Helper()
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create contact %s %s: %v", c.FirstName, c.LastName, err)
	}
	return c
}

// seedJohns inserts n contacts named "John Doe" followed by three others.
func seedJohns(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		createContact(t, db, &domain.Contact{
			FirstName: "John",
			LastName:  "Doe",
			Email:     fmt.Sprintf("john%02d@example.com", i),
		})
	}
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		createContact(t, db, &domain.Contact{FirstName: name, LastName: "Smith", Email: name + "@corp.test"})
	}
}

func contactIDs(rows []domain.Contact) []uint {
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func findAll(t *testing.T, x *Executor[domain.Contact], s spec.Specification, attrs ...string) *spec.Page[domain.Contact] {
	t.Helper()
	page, err := x.FindAll(context.Background(), s, attrs...)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	return page
}
