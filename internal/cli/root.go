package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/definegen/internal/logging"
	"github.com/vvka-141/definegen/pkg/define"
)

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

var rootCmd = &cobra.Command{
	Use:   "definegen",
	Short: "Define-XML metadata compiler",
	Long: `definegen compiles tabular study metadata into a Define-XML document.

The metadata tables (STUDY, DATASET, VARIABLE, VALUE, CODELIST, ...) are read
from a directory of csv files, a sqlite database or a PostgreSQL schema. The
document is written for Define-XML 2.0 or 2.1, for SDTM, SEND or ADaM studies,
optionally with analysis results metadata.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Metadata source unreachable or a required table is missing
  12 - Metadata rows cannot form a valid document
  13 - Output document is out of date (generate --check)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("log-format", logFormatText, "Log format: text|json")
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", completeValues(logFormatText, logFormatJSON))
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// newLogger builds the logger selected by --log-format. The returned
// function flushes buffered entries.
func newLogger(cmd *cobra.Command) (define.Logger, func(), error) {
	verbose := getVerboseFlag(cmd)
	format, _ := cmd.Flags().GetString("log-format")
	switch format {
	case "", logFormatText:
		return logging.NewConsoleLogger(verbose), func() {}, nil
	case logFormatJSON:
		z, err := logging.NewZapLogger(verbose)
		if err != nil {
			return nil, nil, err
		}
		return z, func() { _ = z.Sync() }, nil
	default:
		return nil, nil, fmt.Errorf("invalid argument %q for --log-format: want %s or %s", format, logFormatText, logFormatJSON)
	}
}
