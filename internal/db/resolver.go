package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vvka-141/definegen/pkg/define"
)

// Env holds the environment variables that contribute to a connection.
type Env struct {
	DefinegenConnection string
	DatabaseURL         string
	PGHost              string
	PGPort              string
	PGUser              string
	PGPassword          string
	PGDatabase          string
	PGSSLMode           string
	AWSRegion           string
	AzureTenantID       string
	AzureClientID       string
	AzureClientSecret   string
}

// LoadEnv reads the connection environment of the current process.
func LoadEnv() Env {
	return Env{
		DefinegenConnection: os.Getenv("DEFINEGEN_CONNECTION"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		PGHost:              os.Getenv("PGHOST"),
		PGPort:              os.Getenv("PGPORT"),
		PGUser:              os.Getenv("PGUSER"),
		PGPassword:          os.Getenv("PGPASSWORD"),
		PGDatabase:          os.Getenv("PGDATABASE"),
		PGSSLMode:           os.Getenv("PGSSLMODE"),
		AWSRegion:           os.Getenv("AWS_REGION"),
		AzureTenantID:       os.Getenv("AZURE_TENANT_ID"),
		AzureClientID:       os.Getenv("AZURE_CLIENT_ID"),
		AzureClientSecret:   os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// Options are the connection settings from flags and definegen.yaml.
type Options struct {
	Connection     string
	AuthMethod     string
	AWSRegion      string
	GoogleInstance string
	AzureTenantID  string
	AzureClientID  string
}

// Resolve builds the connection configuration. The first connection
// string found wins, in order: options, DEFINEGEN_CONNECTION,
// DATABASE_URL. Without one, the libpq PG* variables are used.
// The Azure client secret is only read from the environment.
func Resolve(opts Options, env Env) (*define.ConnectionConfig, error) {
	method, err := define.ParseAuthMethod(opts.AuthMethod)
	if err != nil {
		return nil, err
	}

	var cfg *define.ConnectionConfig
	switch connStr := firstNonEmpty(opts.Connection, env.DefinegenConnection, env.DatabaseURL); {
	case connStr != "":
		if cfg, err = ParseConnectionString(connStr); err != nil {
			return nil, err
		}
		if env.PGSSLMode != "" && !strings.Contains(strings.ToLower(connStr), "ssl") {
			cfg.SSLMode = env.PGSSLMode
		}
	default:
		if cfg, err = fromPGEnv(env); err != nil {
			return nil, err
		}
	}

	if cfg.AppName == "" {
		cfg.AppName = "definegen"
	}
	cfg.AuthMethod = method
	cfg.AWSRegion = firstNonEmpty(opts.AWSRegion, env.AWSRegion)
	cfg.GoogleInstance = opts.GoogleInstance
	cfg.AzureTenantID = firstNonEmpty(opts.AzureTenantID, env.AzureTenantID)
	cfg.AzureClientID = firstNonEmpty(opts.AzureClientID, env.AzureClientID)
	cfg.AzureClientSecret = env.AzureClientSecret

	if method == define.AuthMethodStandard && (cfg.AzureTenantID != "" || cfg.AzureClientID != "") && opts.AuthMethod == "" {
		cfg.AuthMethod = define.AuthMethodAzureEntraID
	}
	return cfg, nil
}

func fromPGEnv(env Env) (*define.ConnectionConfig, error) {
	cfg := defaultConfig()
	if env.PGHost != "" {
		cfg.Host = env.PGHost
	}
	if env.PGPort != "" {
		port, err := strconv.Atoi(env.PGPort)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value %q: %w", env.PGPort, define.ErrInvalidConfig)
		}
		cfg.Port = port
	}
	cfg.Username = env.PGUser
	cfg.Password = env.PGPassword
	if env.PGDatabase != "" {
		cfg.Database = env.PGDatabase
	}
	if env.PGSSLMode != "" {
		cfg.SSLMode = env.PGSSLMode
	}
	return cfg, nil
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}
