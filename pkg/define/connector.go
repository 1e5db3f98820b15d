package define

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector establishes a pool to a PostgreSQL metadata source.
// Implementations differ by authentication method.
type Connector interface {
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}
