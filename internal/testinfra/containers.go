// Package testinfra starts disposable PostgreSQL servers for integration
// tests. Tests using it carry the integration build tag.
package testinfra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "clinical"
)

type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartPostgres runs a server and executes the given SQL scripts, in
// order, once the database is created. dir receives the script files.
func StartPostgres(ctx context.Context, dir string, scripts ...string) (*PostgresContainer, error) {
	paths := make([]string, 0, len(scripts))
	for i, sql := range scripts {
		p := filepath.Join(dir, fmt.Sprintf("%02d-seed.sql", i+1))
		if err := os.WriteFile(p, []byte(sql), 0644); err != nil {
			return nil, fmt.Errorf("write seed script: %w", err)
		}
		paths = append(paths, p)
	}

	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		postgres.WithInitScripts(paths...),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}
