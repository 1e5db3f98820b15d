package define

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := generator.Generate(ctx, cfg)
//	if errors.Is(err, define.ErrMissingTable) {
//	    // Handle an incomplete metadata source
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingTable indicates a required input table is absent from the source.
	ErrMissingTable = errors.New("missing input table")

	// ErrInvalidOID indicates an identifier could not be built from its key components.
	ErrInvalidOID = errors.New("invalid identifier construction")

	// ErrMissingValue indicates a required field is absent or malformed.
	ErrMissingValue = errors.New("missing required value")

	// ErrUnresolvedReference indicates an entity refers to a definition that does not exist.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrConnectionFailed indicates the metadata source could not be reached.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrOutOfDate indicates the existing output differs from a fresh generation.
	ErrOutOfDate = errors.New("output out of date")
)

// Reason classifies why a field access failed.
type Reason string

const (
	ReasonMissing    Reason = "missing"
	ReasonMalformed  Reason = "malformed"
	ReasonUnresolved Reason = "unresolved"
	ReasonInvalid    Reason = "invalid"
)

// FieldError describes a failure tied to one field of one input row or
// one element under construction. Every populated context field is
// reported so the offending record can be located without a debugger.
type FieldError struct {
	Table    string
	Row      int
	Tag      string
	Dataset  string
	Variable string
	Value    string
	Field    string
	Param    string
	Reason   Reason
	Err      error
}

func (e *FieldError) Error() string {
	var b strings.Builder
	if e.Table != "" {
		b.WriteString(e.Table)
		if e.Row > 0 {
			fmt.Fprintf(&b, " row %d", e.Row)
		}
		b.WriteString(": ")
	} else if e.Tag != "" {
		b.WriteString(e.Tag)
		b.WriteString(": ")
	}

	var where []string
	if e.Dataset != "" {
		where = append(where, "dataset="+e.Dataset)
	}
	if e.Variable != "" {
		where = append(where, "variable="+e.Variable)
	}
	if e.Value != "" {
		where = append(where, "value="+e.Value)
	}
	if e.Table != "" && e.Tag != "" {
		where = append(where, "element="+e.Tag)
	}

	if e.Field != "" {
		fmt.Fprintf(&b, "%s %q", e.Reason, e.Field)
	} else {
		b.WriteString(string(e.Reason))
	}
	if e.Param != "" {
		fmt.Fprintf(&b, " (%s)", e.Param)
	}
	if len(where) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(where, " "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrMissingTable), errors.Is(err, ErrConnectionFailed):
		return ExitSourceError
	case errors.Is(err, ErrInvalidOID), errors.Is(err, ErrMissingValue), errors.Is(err, ErrUnresolvedReference):
		return ExitInvalidInput
	case errors.Is(err, ErrOutOfDate):
		return ExitOutOfDate
	}

	if isUsageError(err.Error()) {
		return ExitUsageError
	}

	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitSourceError
	}

	return ExitGeneralError
}

// cobra reports argument and flag problems as plain errors.
func isUsageError(msg string) bool {
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "accepts ", "requires at least", "required flag", "invalid argument", "missing required argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
