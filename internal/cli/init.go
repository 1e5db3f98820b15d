package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vvka-141/definegen/internal/scaffold"
	"github.com/vvka-141/definegen/internal/tui"
)

var initCmd = &cobra.Command{
	Use:   "init <target_path>",
	Short: "Initialize a new definegen project",
	Long: `Initialize a definegen project into the specified directory.

The project holds:
- definegen.yaml with the source and document settings
- a tables/ directory with one csv file per metadata table
- README with the table layout

Target directory must be empty or non-existent.

Examples:
  definegen init ./study01                  # SDTM study
  definegen init ./adam01 --template adam   # ADaM study with analysis results
  definegen init --list                     # Show available templates`,
	RunE: runInit,
}

var (
	initTemplate string
	initList     bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "sdtm", "Template to use (sdtm, adam)")
	initCmd.Flags().BoolVar(&initList, "list", false, "List available templates")
	_ = initCmd.RegisterFlagCompletionFunc("template", completeTemplateNames)
	initCmd.ValidArgsFunction = completeDirectories
}

func runInit(cmd *cobra.Command, args []string) error {
	if initList {
		return runTemplatesList(cmd)
	}
	if err := RequireTargetPath(cmd, args); err != nil {
		return err
	}
	targetPath := args[0]

	projectName := filepath.Base(targetPath)
	if projectName == "." || projectName == ".." {
		if cwd, err := os.Getwd(); err == nil {
			projectName = filepath.Base(cwd)
		}
	}

	logger, flush, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer flush()

	if err := scaffold.NewScaffolder(logger).CreateProject(projectName, initTemplate, targetPath); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	out := cmd.ErrOrStderr()
	styled := tui.Styled(out)
	fmt.Fprintf(out, "\n%s\n\n", tui.Success(fmt.Sprintf("Project initialized using template '%s'", initTemplate), styled))
	if tree, err := scaffold.BuildFileTree(targetPath); err == nil {
		fmt.Fprintln(out, "Created structure:")
		fmt.Fprint(out, tree)
	}

	fmt.Fprintln(out, "\nNext steps:")
	if targetPath != "." {
		fmt.Fprintf(out, "  cd %s\n", targetPath)
	}
	fmt.Fprintln(out, "  definegen validate")
	fmt.Fprintln(out, "  definegen generate")
	fmt.Fprintln(out, "  # Or with overrides:")
	fmt.Fprintln(out, "  definegen generate --set StudyName=STUDY01 --define-version 2.0.0")
	return nil
}

func runTemplatesList(cmd *cobra.Command) error {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available templates:")
	for _, t := range templates {
		fmt.Fprintf(out, "  %-8s %s\n", t.Name, t.Description)
	}
	return nil
}
