package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/definegen/internal/assemble"
	"github.com/vvka-141/definegen/internal/services"
	"github.com/vvka-141/definegen/internal/tui"
)

var validateCmd = &cobra.Command{
	Use:   "validate [project_path]",
	Short: "Build the document without writing it",
	Long: `Validate runs the whole pipeline on the metadata tables and reports what the
document would contain. Nothing is written. The exit code tells whether the
tables can form a valid document:

  0  - the document builds
  10 - invalid configuration or overrides
  11 - the source is unreachable or a required table is missing
  12 - rows are missing values or refer to undefined definitions

Use --json for a machine-readable report on stdout.`,
	Args: OptionalProjectPath,
	RunE: runValidate,
}

var (
	validateFlags runFlags
	validateJSON  bool
)

// validationReport is the --json output.
type validationReport struct {
	Project    string          `json:"project"`
	Checksum   string          `json:"checksum"`
	Normalized string          `json:"normalized_checksum"`
	Bytes      int             `json:"bytes"`
	Report     assemble.Report `json:"report"`
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateFlags.register(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the report as JSON to stdout")
	validateCmd.ValidArgsFunction = completeDirectories
}

func runValidate(cmd *cobra.Command, args []string) error {
	projectPath := projectPathArg(args)

	logger, flush, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer flush()

	plan, err := resolvePlan(cmd, projectPath, &validateFlags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := services.NewGenerator(logger, services.WithSourceSystemVersion(sourceSystemVersion()))
	open := services.SourceOpener(plan.Config.ProjectPath, plan.Source, logger)
	res, err := gen.Generate(ctx, open, nil, plan.Config)
	if err != nil {
		return err
	}

	if validateJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(validationReport{
			Project:    projectPath,
			Checksum:   res.Checksum,
			Normalized: res.Normalized,
			Bytes:      len(res.Document),
			Report:     res.Report,
		})
	}

	out := cmd.ErrOrStderr()
	printResult(out, "Metadata is valid", "(not written)", res)
	if len(res.Report.Orphans) > 0 {
		items := make([]string, len(res.Report.Orphans))
		for i, o := range res.Report.Orphans {
			items[i] = fmt.Sprintf("%s %s", o.Kind, o.OID)
		}
		fmt.Fprintln(out, tui.Bullets(items, tui.Styled(out)))
	}
	return nil
}
