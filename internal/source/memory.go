package source

import (
	"context"
	"strings"
)

// Memory is a Reader over tables held in memory. Table names are
// matched case-insensitively.
type Memory struct {
	tables map[string][]Record
}

// NewMemory returns a reader over the given tables.
func NewMemory(tables map[string][]Record) *Memory {
	m := &Memory{tables: make(map[string][]Record, len(tables))}
	for name, rows := range tables {
		m.tables[strings.ToUpper(name)] = rows
	}
	return m
}

// Read implements Reader.
func (m *Memory) Read(ctx context.Context, table string, q Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, ok := m.tables[strings.ToUpper(table)]
	if !ok {
		return nil, MissingTable(table)
	}
	return q.Apply(rows), nil
}

// Close implements Reader.
func (m *Memory) Close() error { return nil }
