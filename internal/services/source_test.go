package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/definegen/internal/logging"
	"github.com/vvka-141/definegen/internal/source"
	"github.com/vvka-141/definegen/pkg/define"
)

func TestSourceOptionsLocation(t *testing.T) {
	tests := []struct {
		name string
		opts SourceOptions
		want string
	}{
		{"csv default", SourceOptions{Type: define.SourceCSV}, filepath.Join("proj", "tables")},
		{"csv relative", SourceOptions{Type: define.SourceCSV, Path: "meta"}, filepath.Join("proj", "meta")},
		{"sqlite", SourceOptions{Type: define.SourceSQLite, Path: "study.db"}, filepath.Join("proj", "study.db")},
		{"absolute", SourceOptions{Type: define.SourceCSV, Path: "/srv/tables"}, "/srv/tables"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Location("proj"))
		})
	}
	assert.True(t, SourceOptions{}.Local())
	assert.False(t, SourceOptions{Type: define.SourcePostgres}.Local())
}

func TestSourceOpenerCSV(t *testing.T) {
	dir := t.TempDir()
	tables := filepath.Join(dir, "tables")
	require.NoError(t, os.MkdirAll(tables, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tables, "study.csv"), []byte("Property,Value\nStudyName,CDISC01\n"), 0o644))

	open := SourceOpener(dir, SourceOptions{Type: define.SourceCSV, Tables: map[string]string{source.TableStudy: "STUDY"}}, logging.NewNullLogger())
	r, err := open(context.Background())
	require.NoError(t, err)
	defer r.Close()

	rows, err := r.Read(context.Background(), source.TableStudy, source.Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CDISC01", rows[0].Get("Value"))
}

func TestSourceOpenerErrors(t *testing.T) {
	log := logging.NewNullLogger()
	ctx := context.Background()

	_, err := SourceOpener(t.TempDir(), SourceOptions{Type: define.SourceSQLite}, log)(ctx)
	assert.ErrorIs(t, err, define.ErrInvalidConfig)

	_, err = SourceOpener(t.TempDir(), SourceOptions{Type: "oracle"}, log)(ctx)
	assert.ErrorIs(t, err, define.ErrInvalidConfig)

	_, err = SourceOpener(t.TempDir(), SourceOptions{Type: define.SourceCSV, Path: "missing"}, log)(ctx)
	assert.ErrorIs(t, err, define.ErrConnectionFailed)
}
