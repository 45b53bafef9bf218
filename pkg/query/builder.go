package query

import (
	"fmt"
	"reflect"
	"strings"
)

const placeholder = "$%d"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type condition struct {
	clause string
	args   []any
}

// SortField is one ORDER BY term over a projected view name.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses "Source,-FailedAt" style sort strings.
// A leading - sorts descending. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Builder accumulates conditions and ordering for one projection and
// numbers placeholders when the statement is built.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for projection. defaultSort applies when
// no requested sort field is usable.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// OrderByFields replaces the requested sort order. Fields that are not
// projected are dropped when the query is built.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// Build returns an unpaginated SELECT.
func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(),
		b.projection.Table(),
		where,
		b.orderBy(),
	), args
}

// BuildCount returns a COUNT(*) over the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.Table(), where), args
}

// BuildPage returns a SELECT limited to one 1-indexed page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, pageSize, (page-1)*pageSize), args
}

// BuildSingle returns a SELECT for the row whose idField equals id.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return b.WhereEquals(idField, id).Build()
}

// WhereEquals adds field = value. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.add(fmt.Sprintf("%s = %s", b.projection.Column(field), placeholder), value)
}

// WhereAtLeast adds field >= value. No-op for nil values.
func (b *Builder) WhereAtLeast(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.add(fmt.Sprintf("%s >= %s", b.projection.Column(field), placeholder), value)
}

// WhereElementContains matches any element of a jsonb string array
// column case-insensitively. No-op for nil or empty values.
func (b *Builder) WhereElementContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.add(
		fmt.Sprintf(
			"EXISTS (SELECT 1 FROM jsonb_array_elements_text(%s) AS e(v) WHERE e.v ILIKE %s)",
			b.projection.Column(field), placeholder,
		),
		contains(*value),
	)
}

// WhereSearch adds an OR of case-insensitive substring matches across
// fields. No-op for nil or empty search.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	pattern := contains(*search)

	for i, field := range fields {
		clauses[i] = fmt.Sprintf("%s ILIKE %s", b.projection.Column(field), placeholder)
		args[i] = pattern
	}

	return b.add("("+strings.Join(clauses, " OR ")+")", args...)
}

// WherePair matches an unordered pair: (fieldA, fieldB) equals
// (first, second) or (second, first), compared case-insensitively.
func (b *Builder) WherePair(fieldA, fieldB, first, second string) *Builder {
	colA := b.projection.Column(fieldA)
	colB := b.projection.Column(fieldB)
	first, second = strings.ToLower(first), strings.ToLower(second)

	return b.add(
		fmt.Sprintf(
			"((lower(%[1]s) = %[3]s AND lower(%[2]s) = %[3]s) OR (lower(%[1]s) = %[3]s AND lower(%[2]s) = %[3]s))",
			colA, colB, placeholder,
		),
		first, second, second, first,
	)
}

func (b *Builder) add(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

func (b *Builder) orderBy() string {
	parts := b.sortTerms(b.sort)
	if len(parts) == 0 {
		parts = b.sortTerms(b.defaultSort)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) sortTerms(fields []SortField) []string {
	var parts []string
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return parts
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(b.conditions))
	var args []any
	n := 1

	for _, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			clause = strings.Replace(clause, placeholder, fmt.Sprintf("$%d", n), 1)
			args = append(args, arg)
			n++
		}
		clauses = append(clauses, clause)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}

	return false
}
