package define

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess      = 0  // Document generated successfully
	ExitGeneralError = 1  // Unknown or unclassified error
	ExitUsageError   = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic        = 3  // Internal panic (unexpected crash)
	ExitConfigError  = 10 // Invalid configuration or parameters
	ExitSourceError  = 11 // Metadata source unreachable or incomplete
	ExitInvalidInput = 12 // Metadata rows cannot form a valid document
	ExitOutOfDate    = 13 // --check found a stale output document
)

const (
	// DefaultOutputFile is the document written when no output path is configured.
	DefaultOutputFile = "define.xml"

	// DefaultTablesDir is the directory holding csv tables inside a project.
	DefaultTablesDir = "tables"

	// DefaultCSVPattern selects table files inside the tables directory.
	DefaultCSVPattern = "*.csv"

	// DefaultLanguage is the xml:lang used for translated text.
	DefaultLanguage = "en"

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 30 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultWatchDebounce coalesces bursts of file events in watch mode.
	DefaultWatchDebounce = 300 * time.Millisecond

	// SourceSystem is reported in the ODM root when the study does not name one.
	SourceSystem = "definegen"
)
