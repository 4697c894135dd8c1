package spec

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Entity is the column mapping table of one entity type. It is built once
// from the gorm schema and then only read, so a single Entity is safe to
// share between goroutines.
//
// A name resolves when it equals the Go field name, the mapped column name,
// or the json name of a persisted field.
type Entity struct {
	schema    *schema.Schema
	columns   map[string]string
	relations map[string]string
}

// NewEntity parses model (a pointer to a struct) with db's schema cache.
func NewEntity(db *gorm.DB, model any) (*Entity, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("parse entity %T: %w", model, err)
	}
	s := stmt.Schema

	e := &Entity{
		schema:    s,
		columns:   make(map[string]string, len(s.Fields)*3),
		relations: make(map[string]string, len(s.Relationships.Relations)*2),
	}
	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		e.columns[f.Name] = f.DBName
		e.columns[f.DBName] = f.DBName
		if name := jsonName(f.StructField.Tag.Get("json")); name != "" {
			e.columns[name] = f.DBName
		}
	}
	for name, rel := range s.Relationships.Relations {
		e.relations[name] = name
		if rel.Field != nil {
			if alias := jsonName(rel.Field.StructField.Tag.Get("json")); alias != "" {
				e.relations[alias] = name
			}
		}
	}
	return e, nil
}

// Name returns the Go type name of the entity.
func (e *Entity) Name() string { return e.schema.Name }

// Table returns the mapped table name.
func (e *Entity) Table() string { return e.schema.Table }

// Schema exposes the parsed gorm schema.
func (e *Entity) Schema() *schema.Schema { return e.schema }

// Column resolves name to its mapped column.
func (e *Entity) Column(name string) (string, bool) {
	col, ok := e.columns[name]
	return col, ok
}

// Columns returns every mapped column in declaration order.
func (e *Entity) Columns() []string {
	return e.schema.DBNames
}

// PrimaryColumn returns the identity column.
func (e *Entity) PrimaryColumn() string {
	if f := e.schema.PrioritizedPrimaryField; f != nil {
		return f.DBName
	}
	return "id"
}

// Relation resolves name to a relationship of the entity and returns the
// relation name gorm expects together with its kind.
func (e *Entity) Relation(name string) (string, schema.RelationshipType, bool) {
	field, ok := e.relations[name]
	if !ok {
		return "", "", false
	}
	return field, e.schema.Relationships.Relations[field].Type, true
}

// column returns the table-qualified column expression for name.
func (e *Entity) column(name string) (clause.Column, error) {
	col, ok := e.Column(name)
	if !ok {
		return clause.Column{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, e.schema.Name, name)
	}
	return clause.Column{Table: clause.CurrentTable, Name: col}, nil
}

func jsonName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
