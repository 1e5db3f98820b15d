package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// OptionalProjectPath accepts zero or one project_path argument. Without
// one the current directory is the project.
func OptionalProjectPath(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("accepts at most 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequireTargetPath validates that exactly one target_path argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireTargetPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <target_path>

Usage: %s

Example:
  %s ./study01 --template sdtm

Use 'definegen init --list' to see available templates.`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

func projectPathArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
