package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/definegen/pkg/define"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))
	return dir
}

func TestLoad_AllFields(t *testing.T) {
	t.Setenv("DEFINEGEN_TEST_PASSWORD", "s3cret")
	dir := writeConfig(t, `source:
  type: postgres
  connection: postgresql://meta:${DEFINEGEN_TEST_PASSWORD}@db/study
  schema: metadata
  auth_method: aws
  aws_region: eu-west-1
  tables:
    variable: variables
output:
  path: out/define.xml
  stylesheet: define2-1.xsl
  push_gateway: http://pushgateway:9091
define:
  version: 2.0.0
  standard: SDTM
  language: en
  context: Submission
  analysis_results: true
  timeout: 2m
study:
  StudyName: CDISC01
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres", cfg.Source.Type)
	assert.Equal(t, "postgresql://meta:s3cret@db/study", cfg.Source.Connection)
	assert.Equal(t, "metadata", cfg.Source.Schema)
	assert.Equal(t, "aws", cfg.Source.AuthMethod)
	assert.Equal(t, "eu-west-1", cfg.Source.AWSRegion)
	assert.Equal(t, map[string]string{"VARIABLE": "variables"}, cfg.TableNames())
	assert.Equal(t, "out/define.xml", cfg.Output.Path)
	assert.Equal(t, "define2-1.xsl", cfg.Output.Stylesheet)
	assert.Equal(t, "http://pushgateway:9091", cfg.Output.PushGateway)
	assert.Equal(t, "2.0.0", cfg.Define.Version)
	assert.True(t, cfg.Define.AnalysisResults)
	assert.Equal(t, "CDISC01", cfg.Study["StudyName"])

	timeout, err := cfg.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, timeout)
}

func TestLoad_MinimalYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "define:\n  standard: ADaM\n"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Source.Type)
	assert.Equal(t, "ADaM", cfg.Define.Standard)
	assert.Nil(t, cfg.TableNames())
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{{invalid"))
	assert.ErrorIs(t, err, define.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"source type", "source:\n  type: oracle\n"},
		{"auth method", "source:\n  type: postgres\n  auth_method: kerberos\n"},
		{"timeout", "define:\n  timeout: soon\n"},
		{"table", "source:\n  tables:\n    PATIENTS: p\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, define.ErrInvalidConfig)
		})
	}
}
