// Package csvdir reads metadata tables from a directory of csv files.
// Each file holds one table; the file's base name (without extension,
// case-insensitive) is the table name.
package csvdir

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vvka-141/definegen/internal/source"
	"github.com/vvka-141/definegen/pkg/define"
)

const bom = "\uFEFF"

// Reader serves tables from csv files in a file system.
type Reader struct {
	fsys  fs.FS
	files map[string]string

	mu    sync.Mutex
	cache map[string][]source.Record
}

// OpenDir opens the csv tables under dir that match pattern.
func OpenDir(dir, pattern string) (*Reader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("tables directory %s: %v: %w", dir, err, define.ErrConnectionFailed)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("tables path %s is not a directory: %w", dir, define.ErrConnectionFailed)
	}
	return Open(os.DirFS(dir), pattern)
}

// Open discovers the csv tables in fsys that match the doublestar pattern.
// When two files map to the same table name, the first in lexical order wins.
func Open(fsys fs.FS, pattern string) (*Reader, error) {
	if pattern == "" {
		pattern = define.DefaultCSVPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid table pattern %q: %w", pattern, define.ErrInvalidConfig)
	}
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	files := make(map[string]string, len(matches))
	for _, m := range matches {
		name := TableName(m)
		if _, dup := files[name]; !dup {
			files[name] = m
		}
	}
	return &Reader{fsys: fsys, files: files, cache: make(map[string][]source.Record)}, nil
}

// TableName derives the logical table name from a file path.
func TableName(p string) string {
	base := path.Base(p)
	return strings.ToUpper(strings.TrimSuffix(base, path.Ext(base)))
}

// Tables returns the discovered table names mapped to their files.
func (r *Reader) Tables() map[string]string {
	out := make(map[string]string, len(r.files))
	for k, v := range r.files {
		out[k] = v
	}
	return out
}

// Read implements source.Reader.
func (r *Reader) Read(ctx context.Context, table string, q source.Query) ([]source.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.load(strings.ToUpper(table))
	if err != nil {
		return nil, err
	}
	return q.Apply(rows), nil
}

func (r *Reader) load(table string) ([]source.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rows, ok := r.cache[table]; ok {
		return rows, nil
	}
	file, ok := r.files[table]
	if !ok {
		return nil, source.MissingTable(table)
	}

	f, err := r.fsys.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	r.cache[table] = rows
	return rows, nil
}

// Close implements source.Reader.
func (r *Reader) Close() error { return nil }

// Parse reads a csv stream whose first row is the header. Rows whose
// fields are all blank are skipped; short rows are padded with "".
func Parse(in io.Reader) ([]source.Record, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		header[i] = strings.TrimSpace(h)
	}

	var rows []source.Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(fields) {
			continue
		}
		rec := make(source.Record, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(fields) {
				rec[h] = fields[i]
			} else {
				rec[h] = ""
			}
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
