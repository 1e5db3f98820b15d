// Package sqlite reads metadata tables from a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/vvka-141/definegen/internal/source"
	"github.com/vvka-141/definegen/pkg/define"
)

var dialect = source.Dialect{Placeholder: func(int) string { return "?" }}

// Reader serves tables from one SQLite database.
type Reader struct {
	db   *sql.DB
	path string
}

// Open opens an existing database file.
func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite database %s: %v: %w", path, err, define.ErrConnectionFailed)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite database %s: %v: %w", path, err, define.ErrConnectionFailed)
	}
	return &Reader{db: db, path: path}, nil
}

// Read implements source.Reader. Table names are matched case-insensitively.
func (r *Reader) Read(ctx context.Context, table string, q source.Query) ([]source.Record, error) {
	name, err := r.resolve(ctx, table)
	if err != nil {
		return nil, err
	}

	query, args := dialect.BuildSelect(source.QuoteIdent(name), q)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", name, err)
	}

	var out []source.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		rec := make(source.Record, len(cols))
		for i, c := range cols {
			rec[strings.TrimSpace(c)] = source.Stringify(vals[i])
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return q.Apply(out), nil
}

func (r *Reader) resolve(ctx context.Context, table string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type IN ('table', 'view') AND upper(name) = upper(?) ORDER BY name LIMIT 1`,
		table).Scan(&name)
	if err == sql.ErrNoRows {
		return "", source.MissingTable(table)
	}
	if err != nil {
		return "", fmt.Errorf("lookup table %s: %w", table, err)
	}
	return name, nil
}

// Close implements source.Reader.
func (r *Reader) Close() error {
	return r.db.Close()
}
