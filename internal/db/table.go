// Package db persists harvested disease records into relational tables.
// Postgres (pgx) serves shared deployments and SQLite (modernc) local runs;
// both upsert by url inside one transaction per batch.
package db

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jonathan/disease-harvester/internal/types"
)

// Column names shared by every disease table. Downstream readers depend on them.
const (
	ColumnPrimaryName = "disease_name_kr"
	ColumnAltName     = "disease_name_eng"
	ColumnURL         = "url"
	ColumnCreatedAt   = "created_at"
	ColumnUpdatedAt   = "updated_at"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Store is a relational backend that can hold disease tables.
type Store interface {
	EnsureTable(ctx context.Context, t Table) error
	UpsertDiseases(ctx context.Context, t Table, records []types.DetailRecord) error
	Close() error
}

// Table is a disease table with one nullable text column per declared field.
type Table struct {
	Name   string
	Fields []types.FieldName
}

// NewTable validates the table and field identifiers.
func NewTable(name string, fields []types.FieldName) (Table, error) {
	if !identifierPattern.MatchString(name) {
		return Table{}, fmt.Errorf("invalid table name %q", name)
	}
	for _, f := range fields {
		if !identifierPattern.MatchString(string(f)) {
			return Table{}, fmt.Errorf("invalid column name %q", f)
		}
	}
	return Table{Name: name, Fields: fields}, nil
}

// Columns lists the written columns in insert order; url is last.
func (t Table) Columns() []string {
	cols := make([]string, 0, len(t.Fields)+3)
	cols = append(cols, ColumnPrimaryName, ColumnAltName)
	for _, f := range t.Fields {
		cols = append(cols, string(f))
	}
	return append(cols, ColumnURL)
}

// Row returns the values for Columns. NoData fields and an empty alt name
// become NULL.
func (t Table) Row(rec types.DetailRecord) []any {
	row := make([]any, 0, len(t.Fields)+3)
	row = append(row, rec.PrimaryName, nullable(types.Value(rec.AltName)))
	for _, f := range t.Fields {
		row = append(row, nullable(rec.Field(f)))
	}
	return append(row, rec.URL)
}

func nullable(v types.FieldValue) any {
	if !v.Present() {
		return nil
	}
	return v.String()
}
