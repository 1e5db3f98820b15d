package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/definegen/internal/retry"
	"github.com/vvka-141/definegen/pkg/define"
)

// Pool settings for a short-lived metadata read.
const (
	DefaultMaxConns        = 2
	DefaultMinConns        = 0
	DefaultMaxConnIdleTime = 5 * time.Minute
)

// configurePool sizes the pool and makes every session read-only, so a
// misconfigured source can never be written to.
func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = make(map[string]string)
	}
	poolConfig.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"
}

func newRetryExecutor(logger define.Logger) *retry.Executor {
	strategy := retry.NewExponentialBackoff(define.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(define.DefaultRetryInitialDelay),
		retry.WithMaxDelay(define.DefaultRetryMaxDelay),
	)
	exec := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), strategy)
	if logger != nil {
		exec = exec.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("connection attempt %d failed (%v), retrying in %v", attempt+1, err, delay.Round(time.Millisecond))
		})
	}
	return exec
}

// StandardConnector connects with username and password, retrying
// transient failures.
type StandardConnector struct {
	config        *define.ConnectionConfig
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a connector using the default retry policy.
func NewStandardConnector(config *define.ConnectionConfig, logger define.Logger) *StandardConnector {
	return &StandardConnector{config: config, retryExecutor: newRetryExecutor(logger)}
}

// Connect implements define.Connector.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return connectWithRetry(ctx, c.retryExecutor, c.config, func(context.Context) (string, error) {
		return c.config.Password, nil
	})
}

// connectWithRetry opens and pings a pool. password is called on every
// attempt so short-lived tokens are refreshed.
func connectWithRetry(ctx context.Context, exec *retry.Executor, config *define.ConnectionConfig, password func(context.Context) (string, error)) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := exec.Execute(ctx, func(ctx context.Context) error {
		secret, err := password(ctx)
		if err != nil {
			return err
		}
		cfg := *config
		cfg.Password = secret

		poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(&cfg))
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %v: %w", err, define.ErrInvalidConfig)
		}
		configurePool(poolConfig)

		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, config)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return wrapConnectionError(err, config)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// NewConnector creates the connector for the configured AuthMethod.
func NewConnector(config *define.ConnectionConfig, logger define.Logger) (define.Connector, error) {
	switch config.AuthMethod {
	case define.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case define.AuthMethodAWSIAM:
		provider, err := NewAWSIAMTokenProvider(fmt.Sprintf("%s:%d", config.Host, config.Port), config.AWSRegion, config.Username)
		if err != nil {
			return nil, err
		}
		return NewTokenBasedConnector(config, provider, logger), nil
	case define.AuthMethodAzureEntraID:
		provider, err := NewAzureTokenProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
		if err != nil {
			return nil, err
		}
		return NewTokenBasedConnector(config, provider, logger), nil
	case define.AuthMethodGoogleIAM:
		if config.GoogleInstance == "" {
			return nil, fmt.Errorf("Google Cloud SQL IAM auth requires source.google_instance (project:region:instance): %w", define.ErrInvalidConfig)
		}
		if config.Username == "" {
			return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username: %w", define.ErrInvalidConfig)
		}
		return NewGoogleCloudSQLConnector(config), nil
	default:
		return nil, fmt.Errorf("auth method %v: %w", config.AuthMethod, define.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError adds a hint for the common failure modes and marks
// the error as a connection failure.
func wrapConnectionError(err error, config *define.ConnectionConfig) error {
	msg := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var hint string
	switch {
	case strings.Contains(msg, "connection refused"):
		hint = fmt.Sprintf("is PostgreSQL running on %s? (pg_isready -h %s -p %d)", addr, config.Host, config.Port)
	case strings.Contains(msg, "no such host"):
		hint = fmt.Sprintf("host %q cannot be resolved", config.Host)
	case strings.Contains(msg, "password authentication failed"):
		hint = "check the username and $PGPASSWORD, or the connection string in .env"
	case strings.Contains(msg, "does not exist"):
		hint = fmt.Sprintf("database %q does not exist on %s", config.Database, addr)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		hint = fmt.Sprintf("%s did not answer in time", addr)
	case strings.Contains(msg, "ssl"), strings.Contains(msg, "tls"):
		hint = "the server's TLS requirements do not match sslmode=" + config.SSLMode
	}

	if hint == "" {
		return fmt.Errorf("%w: %w", define.ErrConnectionFailed, err)
	}
	return fmt.Errorf("%w: %s: %w", define.ErrConnectionFailed, hint, err)
}
