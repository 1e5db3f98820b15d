package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vvka-141/definegen/pkg/define"
)

func TestOptionalProjectPath(t *testing.T) {
	cmd := &cobra.Command{Use: "generate [project_path]"}

	if err := OptionalProjectPath(cmd, nil); err != nil {
		t.Errorf("expected no error for zero args, got %v", err)
	}
	if err := OptionalProjectPath(cmd, []string{"./study"}); err != nil {
		t.Errorf("expected no error for one arg, got %v", err)
	}
	err := OptionalProjectPath(cmd, []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error for two args")
	}
	if code := define.ExitCodeForError(err); code != define.ExitUsageError {
		t.Errorf("expected exit code %d, got %d", define.ExitUsageError, code)
	}
}

func TestRequireTargetPath(t *testing.T) {
	cmd := &cobra.Command{Use: "init <target_path>"}

	err := RequireTargetPath(cmd, nil)
	if err == nil {
		t.Fatal("expected error for missing target")
	}
	if !strings.Contains(err.Error(), "definegen init --list") {
		t.Errorf("expected hint about --list, got %q", err.Error())
	}
	if code := define.ExitCodeForError(err); code != define.ExitUsageError {
		t.Errorf("expected exit code %d, got %d", define.ExitUsageError, code)
	}
	if err := RequireTargetPath(cmd, []string{"./x"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestProjectPathArg(t *testing.T) {
	if got := projectPathArg(nil); got != "." {
		t.Errorf("expected '.', got %q", got)
	}
	if got := projectPathArg([]string{"study"}); got != "study" {
		t.Errorf("expected 'study', got %q", got)
	}
}
