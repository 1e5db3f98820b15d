package cli

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, c, d string) {
	t.Helper()
	origV, origC, origD := version, commit, date
	t.Cleanup(func() { version, commit, date = origV, origC, origD })
	version, commit, date = v, c, d
}

func TestResolveVersionInfoPrefersLdflags(t *testing.T) {
	withVersion(t, "1.4.0", "abc1234", "2026-01-02")

	v, c, d := resolveVersionInfo()
	assert.Equal(t, "1.4.0", v)
	assert.Equal(t, "abc1234", c)
	assert.Equal(t, "2026-01-02", d)
	assert.Equal(t, "1.4.0", sourceSystemVersion())
}

func TestResolveVersionInfoDevBuild(t *testing.T) {
	withVersion(t, "dev", "unknown", "unknown")

	v, c, d := resolveVersionInfo()
	assert.NotEmpty(t, v)
	assert.NotEmpty(t, c)
	assert.NotEmpty(t, d)
}

func TestVersionCommand(t *testing.T) {
	withVersion(t, "1.4.0", "abc1234", "2026-01-02")

	stdout, _, err := execute(t, "version")
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^definegen 1\.4\.0 \(abc1234, 2026-01-02\) \w+/\w+\n$`), stdout)
}
