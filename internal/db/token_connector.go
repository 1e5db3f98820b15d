package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/definegen/internal/retry"
	"github.com/vvka-141/definegen/pkg/define"
)

// TokenBasedConnector uses a cloud token as the PostgreSQL password.
// A fresh token is acquired for every connection attempt.
type TokenBasedConnector struct {
	config        *define.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	logger        define.Logger
}

// NewTokenBasedConnector creates a connector over the given provider.
func NewTokenBasedConnector(config *define.ConnectionConfig, provider TokenProvider, logger define.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: provider,
		retryExecutor: newRetryExecutor(logger),
		logger:        logger,
	}
}

// Connect implements define.Connector.
func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return connectWithRetry(ctx, c.retryExecutor, c.config, func(ctx context.Context) (string, error) {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return "", fmt.Errorf("%s: %w", c.tokenProvider, err)
		}
		if c.logger != nil {
			c.logger.Verbose("acquired token from %s, expires in %v", c.tokenProvider, time.Until(expiresOn).Round(time.Second))
		}
		return token, nil
	})
}
