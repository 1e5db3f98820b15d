package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/definegen/pkg/define"
)

// execute runs the root command with fresh flag state.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	generateFlags, validateFlags = runFlags{}, runFlags{}
	generateCheck, generateWatch, validateJSON, initList = false, false, false, false
	generatePushURL = ""
	initTemplate = "sdtm"

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func scaffoldProject(t *testing.T, template string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "CDISC01")
	_, _, err := execute(t, "init", dir, "--template", template)
	require.NoError(t, err)
	return dir
}

func TestInitCreatesProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "study")
	_, stderr, err := execute(t, "init", dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "definegen.yaml"))
	assert.FileExists(t, filepath.Join(dir, "tables", "study.csv"))
	assert.Contains(t, stderr, "Project initialized using template 'sdtm'")
	assert.Contains(t, stderr, "definegen generate")
}

func TestInitErrors(t *testing.T) {
	t.Run("missing target", func(t *testing.T) {
		_, _, err := execute(t, "init")
		require.Error(t, err)
		assert.Equal(t, define.ExitUsageError, define.ExitCodeForError(err))
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, err := execute(t, "init", t.TempDir()+"/x", "--template", "nope")
		require.Error(t, err)
		assert.Equal(t, define.ExitConfigError, define.ExitCodeForError(err))
	})
}

func TestInitList(t *testing.T) {
	stdout, _, err := execute(t, "init", "--list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "sdtm")
	assert.Contains(t, stdout, "adam")
}

func TestGenerateWritesDefine(t *testing.T) {
	dir := scaffoldProject(t, "sdtm")

	_, stderr, err := execute(t, "generate", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, define.DefaultOutputFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<ODM")
	assert.Contains(t, string(data), `def:DefineVersion="2.1.0"`)
	assert.Contains(t, stderr, "Define-XML generated")
	assert.Contains(t, stderr, "Datasets")
}

func TestGenerateFlagsOverrideConfig(t *testing.T) {
	dir := scaffoldProject(t, "sdtm")

	_, _, err := execute(t, "generate", dir,
		"-o", "out/define20.xml",
		"--define-version", "2.0.0",
		"--set", "studyname=OVERRIDE01",
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out", "define20.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `def:DefineVersion="2.0.0"`)
	assert.Contains(t, string(data), "OVERRIDE01")
}

func TestGenerateRejectsUnknownOverride(t *testing.T) {
	dir := scaffoldProject(t, "sdtm")

	_, _, err := execute(t, "generate", dir, "--set", "Sponsor=ACME")
	require.Error(t, err)
	assert.Equal(t, define.ExitConfigError, define.ExitCodeForError(err))
}

func TestGenerateCheck(t *testing.T) {
	dir := scaffoldProject(t, "sdtm")

	_, _, err := execute(t, "generate", dir, "--check")
	require.ErrorIs(t, err, define.ErrOutOfDate)
	assert.Equal(t, define.ExitOutOfDate, define.ExitCodeForError(err))

	_, _, err = execute(t, "generate", dir)
	require.NoError(t, err)

	_, stderr, err := execute(t, "generate", dir, "--check")
	require.NoError(t, err)
	assert.Contains(t, stderr, "is up to date")

	_, stderr, err = execute(t, "generate", dir, "--check", "--set", "StudyDescription=Changed")
	require.ErrorIs(t, err, define.ErrOutOfDate)
	assert.Contains(t, stderr, "out of date")
}

func TestGenerateWatchNeedsLocalSource(t *testing.T) {
	dir := scaffoldProject(t, "sdtm")

	_, _, err := execute(t, "generate", dir, "--watch", "--source", "postgres")
	require.ErrorIs(t, err, define.ErrInvalidConfig)
}

func TestGenerateMissingTable(t *testing.T) {
	dir := scaffoldProject(t, "sdtm")
	require.NoError(t, os.Remove(filepath.Join(dir, "tables", "dataset.csv")))

	_, _, err := execute(t, "generate", dir)
	require.ErrorIs(t, err, define.ErrMissingTable)
	assert.Equal(t, define.ExitSourceError, define.ExitCodeForError(err))
}

func TestValidateJSON(t *testing.T) {
	dir := scaffoldProject(t, "adam")

	stdout, _, err := execute(t, "validate", dir, "--json")
	require.NoError(t, err)

	var report validationReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 2, report.Report.Datasets)
	assert.Equal(t, 1, report.Report.Results)
	assert.Len(t, report.Checksum, 64)
	assert.NoFileExists(t, filepath.Join(dir, define.DefaultOutputFile))
}

func TestValidateSummary(t *testing.T) {
	dir := scaffoldProject(t, "sdtm")

	_, stderr, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Metadata is valid")
	assert.Contains(t, stderr, "(not written)")
}

func TestValidateMissingProject(t *testing.T) {
	_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Equal(t, define.ExitConfigError, define.ExitCodeForError(err))
}

func TestInvalidLogFormat(t *testing.T) {
	dir := scaffoldProject(t, "sdtm")

	_, _, err := execute(t, "validate", dir, "--log-format", "xml")
	require.Error(t, err)
	assert.Equal(t, define.ExitUsageError, define.ExitCodeForError(err))
}
