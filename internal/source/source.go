// Package source reads the logical metadata tables a study is described
// by. Backends hold the tables as csv files, sqlite tables or PostgreSQL
// tables; all of them answer the same filtered, de-duplicating queries.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/definegen/pkg/define"
)

// Logical table names.
const (
	TableStudy           = "STUDY"
	TableStandard        = "STANDARD"
	TableDocument        = "DOCUMENT"
	TableDataset         = "DATASET"
	TableVariable        = "VARIABLE"
	TableValue           = "VALUE"
	TableCodelist        = "CODELIST"
	TableDictionary      = "DICTIONARY"
	TableMethod          = "METHOD"
	TableComment         = "COMMENT"
	TableDisplay         = "ARM_DISPLAY"
	TableResult          = "ARM_RESULT"
	TableAnalysisDataset = "ARM_DATASET"
)

// Tables lists every logical table in load order.
var Tables = []string{
	TableStudy, TableStandard, TableDocument, TableComment, TableMethod,
	TableCodelist, TableDictionary, TableDataset, TableVariable, TableValue,
	TableDisplay, TableResult, TableAnalysisDataset,
}

// Required reports whether a document cannot be built without the table.
func Required(table string) bool {
	switch table {
	case TableStudy, TableDataset, TableVariable:
		return true
	}
	return false
}

// Record is one row, keyed by column name.
type Record map[string]string

// Get returns the trimmed value of a column, or "" when the column is absent.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Has reports whether the column exists in the row.
func (r Record) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Op is a filter comparison.
type Op int

const (
	OpEq Op = iota
	OpNe
)

// Filter restricts rows by one column.
type Filter struct {
	Column string
	Op     Op
	Value  string
}

// Eq keeps rows whose column equals value.
func Eq(column, value string) Filter { return Filter{Column: column, Op: OpEq, Value: value} }

// Ne keeps rows whose column differs from value.
func Ne(column, value string) Filter { return Filter{Column: column, Op: OpNe, Value: value} }

// Matches reports whether the record passes the filter. Values are compared trimmed.
func (f Filter) Matches(r Record) bool {
	eq := r.Get(f.Column) == strings.TrimSpace(f.Value)
	if f.Op == OpNe {
		return !eq
	}
	return eq
}

// Query selects rows of a table. Filters are AND-ed. When Unique names
// columns, only the first row of each distinct combination is kept.
type Query struct {
	Filters []Filter
	Unique  []string
}

// Apply evaluates the query over rows held in memory, preserving row order.
func (q Query) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	seen := make(map[string]bool)
	for _, r := range records {
		if !q.matches(r) {
			continue
		}
		if len(q.Unique) > 0 {
			k := q.uniqueKey(r)
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		out = append(out, r)
	}
	return out
}

func (q Query) matches(r Record) bool {
	for _, f := range q.Filters {
		if !f.Matches(r) {
			return false
		}
	}
	return true
}

func (q Query) uniqueKey(r Record) string {
	parts := make([]string, len(q.Unique))
	for i, c := range q.Unique {
		parts[i] = r.Get(c)
	}
	return strings.Join(parts, "\x00")
}

// Reader reads logical tables. A table that does not exist yields an
// error wrapping define.ErrMissingTable.
type Reader interface {
	Read(ctx context.Context, table string, q Query) ([]Record, error)
	Close() error
}

// MissingTable builds the error returned for an absent table.
func MissingTable(table string) error {
	return fmt.Errorf("table %s: %w", table, define.ErrMissingTable)
}

type renamed struct {
	Reader
	names map[string]string
}

// WithTableNames maps logical table names to physical ones before
// delegating to r. Unmapped tables keep their logical name.
func WithTableNames(r Reader, names map[string]string) Reader {
	if len(names) == 0 {
		return r
	}
	upper := make(map[string]string, len(names))
	for k, v := range names {
		upper[strings.ToUpper(k)] = v
	}
	return &renamed{Reader: r, names: upper}
}

func (r *renamed) Read(ctx context.Context, table string, q Query) ([]Record, error) {
	if physical, ok := r.names[table]; ok && physical != "" {
		return r.Reader.Read(ctx, physical, q)
	}
	return r.Reader.Read(ctx, table, q)
}
