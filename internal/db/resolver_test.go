package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/definegen/pkg/define"
)

func TestResolvePrecedence(t *testing.T) {
	env := Env{
		DefinegenConnection: "postgresql://env@envhost/envdb",
		DatabaseURL:         "postgresql://url@urlhost/urldb",
		PGHost:              "pghost",
	}

	cfg, err := Resolve(Options{Connection: "postgresql://opt@opthost/optdb"}, env)
	require.NoError(t, err)
	assert.Equal(t, "opthost", cfg.Host)

	cfg, err = Resolve(Options{}, env)
	require.NoError(t, err)
	assert.Equal(t, "envhost", cfg.Host)

	env.DefinegenConnection = ""
	cfg, err = Resolve(Options{}, env)
	require.NoError(t, err)
	assert.Equal(t, "urlhost", cfg.Host)

	env.DatabaseURL = ""
	cfg, err = Resolve(Options{}, env)
	require.NoError(t, err)
	assert.Equal(t, "pghost", cfg.Host)
	assert.Equal(t, "definegen", cfg.AppName)
}

func TestResolvePGEnv(t *testing.T) {
	cfg, err := Resolve(Options{}, Env{
		PGHost: "h", PGPort: "6000", PGUser: "u", PGPassword: "p", PGDatabase: "d", PGSSLMode: "verify-full",
	})
	require.NoError(t, err)
	assert.Equal(t, "h", cfg.Host)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "u", cfg.Username)
	assert.Equal(t, "p", cfg.Password)
	assert.Equal(t, "d", cfg.Database)
	assert.Equal(t, "verify-full", cfg.SSLMode)

	_, err = Resolve(Options{}, Env{PGPort: "nope"})
	assert.True(t, errors.Is(err, define.ErrInvalidConfig))
}

func TestResolveSSLModeFromEnv(t *testing.T) {
	cfg, err := Resolve(Options{Connection: "postgresql://u@h/d"}, Env{PGSSLMode: "require"})
	require.NoError(t, err)
	assert.Equal(t, "require", cfg.SSLMode)

	cfg, err = Resolve(Options{Connection: "postgresql://u@h/d?sslmode=disable"}, Env{PGSSLMode: "require"})
	require.NoError(t, err)
	assert.Equal(t, "disable", cfg.SSLMode)
}

func TestResolveAuthMethods(t *testing.T) {
	cfg, err := Resolve(Options{AuthMethod: "aws", AWSRegion: "eu-west-1"}, Env{})
	require.NoError(t, err)
	assert.Equal(t, define.AuthMethodAWSIAM, cfg.AuthMethod)
	assert.Equal(t, "eu-west-1", cfg.AWSRegion)

	cfg, err = Resolve(Options{}, Env{AzureTenantID: "t", AzureClientID: "c", AzureClientSecret: "s"})
	require.NoError(t, err)
	assert.Equal(t, define.AuthMethodAzureEntraID, cfg.AuthMethod)
	assert.Equal(t, "s", cfg.AzureClientSecret)

	cfg, err = Resolve(Options{AuthMethod: "standard"}, Env{AzureTenantID: "t"})
	require.NoError(t, err)
	assert.Equal(t, define.AuthMethodStandard, cfg.AuthMethod)

	_, err = Resolve(Options{AuthMethod: "kerberos"}, Env{})
	assert.True(t, errors.Is(err, define.ErrUnsupportedAuthMethod))
}
