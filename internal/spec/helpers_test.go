package spec

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	dbtest "gorm.io/gorm/utils/tests"
)

type widget struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Kind     string `json:"kind"`
	Deleted  bool   `json:"deleted"`
	Archived bool   `json:"archived"`
	Secret   string `json:"-"`
	OwnerID  *uint  `json:"owner_id"`
	Owner    *owner `json:"owner,omitempty"`
	Parts    []part `json:"parts,omitempty"`
}

type owner struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type part struct {
	ID       uint `gorm:"primaryKey"`
	WidgetID uint
	Label    string
}

// gadget is a widget subtype stored in the same table.
type gadget struct{ widget }

func (gadget) DiscriminatorValue() string { return "gadget" }

// newSQLiteDB opens an in-memory database holding the widget tables.
func newSQLiteDB(t *testing.T) *gorm.DB {
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
	if err := db.AutoMigrate(&owner{}, &widget{}, &part{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(dbtest.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return db
}

func mustEntity(t *testing.T, db *gorm.DB) *Entity {
	t.Helper()
	e, err := NewEntity(db, &widget{})
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}
	return e
}

func seedWidgets(t *testing.T, db *gorm.DB, rows ...widget) {
	t.Helper()
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed widget %q: %v", rows[i].Name, err)
		}
	}
}
