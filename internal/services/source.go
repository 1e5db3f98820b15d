package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vvka-141/definegen/internal/db"
	"github.com/vvka-141/definegen/internal/source"
	"github.com/vvka-141/definegen/internal/source/csvdir"
	"github.com/vvka-141/definegen/internal/source/postgres"
	"github.com/vvka-141/definegen/internal/source/sqlite"
	"github.com/vvka-141/definegen/pkg/define"
)

// SourceOptions select and locate the metadata source.
type SourceOptions struct {
	Type define.SourceType
	// Path is the csv directory or the sqlite file, relative to the project.
	Path    string
	Pattern string
	Schema  string
	// Tables maps logical table names to physical ones.
	Tables     map[string]string
	Connection db.Options
}

// Local reports whether the source lives on the local file system.
func (o SourceOptions) Local() bool {
	return o.Type != define.SourcePostgres
}

// Location is the resolved path of a local source.
func (o SourceOptions) Location(projectPath string) string {
	p := o.Path
	if p == "" && o.Type != define.SourceSQLite {
		p = define.DefaultTablesDir
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectPath, p)
}

// SourceOpener returns an Opener for the configured source.
func SourceOpener(projectPath string, opts SourceOptions, logger define.Logger) Opener {
	return func(ctx context.Context) (source.Reader, error) {
		r, err := openSource(ctx, projectPath, opts, logger)
		if err != nil {
			return nil, err
		}
		if len(opts.Tables) > 0 {
			return source.WithTableNames(r, opts.Tables), nil
		}
		return r, nil
	}
}

func openSource(ctx context.Context, projectPath string, opts SourceOptions, logger define.Logger) (source.Reader, error) {
	switch opts.Type {
	case "", define.SourceCSV:
		dir := opts.Location(projectPath)
		logger.Verbose("Reading csv tables from %s", dir)
		return csvdir.OpenDir(dir, opts.Pattern)
	case define.SourceSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite source requires source.path: %w", define.ErrInvalidConfig)
		}
		file := opts.Location(projectPath)
		logger.Verbose("Reading sqlite tables from %s", file)
		return sqlite.Open(file)
	case define.SourcePostgres:
		cfg, err := db.Resolve(opts.Connection, db.LoadEnv())
		if err != nil {
			return nil, err
		}
		connector, err := db.NewConnector(cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Verbose("Reading tables from PostgreSQL %s:%d/%s (%s)", cfg.Host, cfg.Port, cfg.Database, cfg.AuthMethod)
		return postgres.Connect(ctx, connector, opts.Schema)
	default:
		return nil, fmt.Errorf("unknown source type %q: %w", opts.Type, define.ErrInvalidConfig)
	}
}
