package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/definegen/pkg/define"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func planFor(t *testing.T, dir string, args ...string) (*runPlan, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	var f runFlags
	f.register(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return resolvePlan(cmd, dir, &f)
}

func TestResolvePlanPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "definegen.yaml"), `
source:
  type: csv
  path: meta
output:
  path: build/define.xml
  push_gateway: http://gateway:9091
define:
  version: "2.0.0"
  standard: SDTM
  timeout: 45s
study:
  studyname: FROMYAML
  ProtocolName: P-YAML
  StudyDescription: From yaml
`)
	overrides := filepath.Join(dir, "overrides.env")
	writeFile(t, overrides, "StudyName=FROMFILE\nProtocolName=P-FILE\n")

	plan, err := planFor(t, dir,
		"--set-file", overrides,
		"--set", "StudyName=FROMFLAG",
		"--define-version", "2.1.0",
	)
	require.NoError(t, err)

	assert.Equal(t, "2.1.0", plan.Config.DefineVersion)
	assert.Equal(t, "SDTM", plan.Config.StandardType)
	assert.Equal(t, 45*time.Second, plan.Config.Timeout)
	assert.Equal(t, filepath.Join(dir, "build", "define.xml"), plan.Config.OutputPath)
	assert.Equal(t, "http://gateway:9091", plan.PushGateway)
	assert.Equal(t, filepath.Join(dir, "definegen.yaml"), plan.ConfigFile)
	assert.Equal(t, map[string]string{
		"StudyName":        "FROMFLAG",
		"ProtocolName":     "P-FILE",
		"StudyDescription": "From yaml",
	}, plan.Config.StudyOverrides)

	assert.Equal(t, define.SourceCSV, plan.Source.Type)
	assert.Equal(t, filepath.Join(dir, "meta"), plan.Source.Location(dir))
}

func TestResolvePlanWithoutConfig(t *testing.T) {
	dir := t.TempDir()

	plan, err := planFor(t, dir)
	require.NoError(t, err)

	assert.Empty(t, plan.ConfigFile)
	assert.Nil(t, plan.Config.StudyOverrides)
	assert.Equal(t, filepath.Join(dir, define.DefaultOutputFile), plan.Config.OutputPath)
	assert.Equal(t, define.SourceCSV, plan.Source.Type)
	assert.Zero(t, plan.Config.Timeout)
}

func TestResolvePlanFlagTimeoutWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "definegen.yaml"), "define:\n  timeout: 45s\n")

	plan, err := planFor(t, dir, "--timeout", "5s")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, plan.Config.Timeout)
}

func TestResolvePlanPostgres(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEFINEGEN_TEST_PASSWORD", "secret")
	writeFile(t, filepath.Join(dir, "definegen.yaml"), `
source:
  type: postgres
  schema: metadata
  connection: postgres://define:${DEFINEGEN_TEST_PASSWORD}@db:5432/study
  aws_region: eu-west-1
  tables:
    dataset: datasets
`)

	plan, err := planFor(t, dir, "--auth-method", "aws")
	require.NoError(t, err)

	assert.False(t, plan.Source.Local())
	assert.Equal(t, "metadata", plan.Source.Schema)
	assert.Equal(t, "postgres://define:secret@db:5432/study", plan.Source.Connection.Connection)
	assert.Equal(t, "aws", plan.Source.Connection.AuthMethod)
	assert.Equal(t, "eu-west-1", plan.Source.Connection.AWSRegion)
	assert.Equal(t, map[string]string{"DATASET": "datasets"}, plan.Source.Tables)
}

func TestResolvePlanErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		dir  string
		args []string
	}{
		{"missing project", filepath.Join(dir, "absent"), nil},
		{"bad source", dir, []string{"--source", "excel"}},
		{"bad auth method", dir, []string{"--auth-method", "kerberos"}},
		{"bad override", dir, []string{"--set", "novalue"}},
		{"unknown property", dir, []string{"--set", "Sponsor=ACME"}},
		{"missing set file", dir, []string{"--set-file", filepath.Join(dir, "none.env")}},
		{"negative timeout", dir, []string{"--timeout=-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := planFor(t, tt.dir, tt.args...)
			require.Error(t, err)
			assert.Equal(t, define.ExitConfigError, define.ExitCodeForError(err))
		})
	}
}

func TestOutputPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "define.xml")
	tests := []struct {
		in   string
		want string
	}{
		{"", filepath.Join("proj", "define.xml")},
		{"out/d.xml", filepath.Join("proj", "out", "d.xml")},
		{abs, abs},
		{"s3://bucket/study/define.xml", "s3://bucket/study/define.xml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outputPath("proj", tt.in), tt.in)
	}
}
