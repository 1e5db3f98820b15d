package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteValues(t *testing.T) {
	cmd := &cobra.Command{}
	complete := completeValues(standardTypes...)

	t.Run("returns all values for empty input", func(t *testing.T) {
		completions, directive := complete(cmd, nil, "")
		if len(completions) != len(standardTypes) {
			t.Errorf("expected %d completions, got %d", len(standardTypes), len(completions))
		}
		if directive != cobra.ShellCompDirectiveNoFileComp {
			t.Errorf("expected ShellCompDirectiveNoFileComp, got %v", directive)
		}
	})

	t.Run("filters by prefix case-insensitively", func(t *testing.T) {
		completions, _ := complete(cmd, nil, "s")
		if len(completions) != 2 {
			t.Errorf("expected 2 completions (SDTM, SEND), got %v", completions)
		}
	})

	t.Run("returns empty for non-matching prefix", func(t *testing.T) {
		completions, _ := complete(cmd, nil, "xyz")
		if len(completions) != 0 {
			t.Errorf("expected 0 completions, got %d", len(completions))
		}
	})
}

func TestCompleteTemplateNames(t *testing.T) {
	completions, directive := completeTemplateNames(&cobra.Command{}, nil, "sd")
	if len(completions) != 1 || completions[0] != "sdtm" {
		t.Errorf("expected [sdtm], got %v", completions)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("expected ShellCompDirectiveNoFileComp, got %v", directive)
	}
}

func TestCompleteDirectories(t *testing.T) {
	_, directive := completeDirectories(&cobra.Command{}, nil, "")
	if directive != cobra.ShellCompDirectiveFilterDirs {
		t.Errorf("expected ShellCompDirectiveFilterDirs, got %v", directive)
	}
	_, directive = completeDirectories(&cobra.Command{}, []string{"."}, "")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("expected ShellCompDirectiveNoFileComp after first arg, got %v", directive)
	}
}
