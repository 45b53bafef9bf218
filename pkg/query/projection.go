// Package query builds parameterized SQL over a ProjectionMap that maps
// API view names onto qualified columns.
package query

import (
	"strings"
)

// ProjectionMap maps view names to alias-qualified columns of one table.
// Only projected names are accepted for sorting.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjectionMap creates a ProjectionMap for schema.table under alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to viewName. Columns are selected in projection order.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[viewName] = qualified
	p.order = append(p.order, qualified)
	return p
}

// Name returns schema.table without the alias.
func (p *ProjectionMap) Name() string {
	return p.schema + "." + p.table
}

// Table returns the FROM reference, schema.table alias.
func (p *ProjectionMap) Table() string {
	return p.Name() + " " + p.alias
}

// Lookup returns the qualified column for viewName.
func (p *ProjectionMap) Lookup(viewName string) (string, bool) {
	col, ok := p.columns[viewName]
	return col, ok
}

// Column returns the qualified column for viewName, or viewName itself
// when it is not projected. Callers pass trusted field names only.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns the projected columns as a select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
