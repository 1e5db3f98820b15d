// Package postgres reads metadata tables from a PostgreSQL schema.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/definegen/internal/source"
	"github.com/vvka-141/definegen/pkg/define"
)

// DefaultSchema is searched when no schema is configured.
const DefaultSchema = "public"

var dialect = source.Dialect{Placeholder: func(n int) string { return "$" + strconv.Itoa(n) }}

// Reader serves tables from one schema through a pgx pool.
type Reader struct {
	pool   *pgxpool.Pool
	schema string
	owned  bool
}

// Connect opens a pool through connector. The pool is closed by Close.
func Connect(ctx context.Context, connector define.Connector, schema string) (*Reader, error) {
	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	r := New(pool, schema)
	r.owned = true
	return r, nil
}

// New wraps an existing pool. Close leaves the pool open.
func New(pool *pgxpool.Pool, schema string) *Reader {
	if schema == "" {
		schema = DefaultSchema
	}
	return &Reader{pool: pool, schema: schema}
}

// Read implements source.Reader. Table names are matched case-insensitively
// within the schema.
func (r *Reader) Read(ctx context.Context, table string, q source.Query) ([]source.Record, error) {
	name, err := r.resolve(ctx, table)
	if err != nil {
		return nil, err
	}

	query, args := selectQuery(r.schema, name, q)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s.%s: %w", r.schema, name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []source.Record
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		rec := make(source.Record, len(fields))
		for i, f := range fields {
			rec[strings.TrimSpace(f.Name)] = source.Stringify(vals[i])
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return q.Apply(out), nil
}

func selectQuery(schema, table string, q source.Query) (string, []any) {
	return dialect.BuildSelect(source.QuoteIdent(schema)+"."+source.QuoteIdent(table), q)
}

func (r *Reader) resolve(ctx context.Context, table string) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = $1 AND upper(table_name) = upper($2)
		 ORDER BY table_name LIMIT 1`,
		r.schema, table).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", source.MissingTable(table)
	}
	if err != nil {
		return "", fmt.Errorf("lookup table %s: %w", table, err)
	}
	return name, nil
}

// Close implements source.Reader.
func (r *Reader) Close() error {
	if r.owned {
		r.pool.Close()
	}
	return nil
}
