package define_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/definegen/pkg/define"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, define.ExitSuccess},
		{"general error", errors.New("something went wrong"), define.ExitGeneralError},
		{"unknown flag", errors.New("unknown flag --foo"), define.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), define.ExitUsageError},
		{"invalid config", fmt.Errorf("bad: %w", define.ErrInvalidConfig), define.ExitConfigError},
		{"auth", define.ErrUnsupportedAuthMethod, define.ExitConfigError},
		{"missing table", fmt.Errorf("VARIABLE: %w", define.ErrMissingTable), define.ExitSourceError},
		{"connection failed", define.ErrConnectionFailed, define.ExitSourceError},
		{"connection refused text", errors.New("dial tcp: connection refused"), define.ExitSourceError},
		{"invalid oid", define.ErrInvalidOID, define.ExitInvalidInput},
		{"out of date", define.ErrOutOfDate, define.ExitOutOfDate},
		{"field error", &define.FieldError{Table: "VARIABLE", Err: define.ErrMissingValue}, define.ExitInvalidInput},
		{"joined", errors.Join(errors.New("x"), &define.FieldError{Err: define.ErrUnresolvedReference}), define.ExitInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := define.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFieldErrorMessage(t *testing.T) {
	err := &define.FieldError{
		Table:    "VARIABLE",
		Row:      7,
		Dataset:  "DM",
		Variable: "AGE",
		Field:    "Length",
		Reason:   define.ReasonMalformed,
		Param:    `"abc"`,
		Err:      define.ErrMissingValue,
	}

	want := `VARIABLE row 7: malformed "Length" ("abc") [dataset=DM variable=AGE]: missing required value`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, define.ErrMissingValue) {
		t.Error("expected FieldError to unwrap to ErrMissingValue")
	}
}

func TestFieldErrorTagOnly(t *testing.T) {
	err := &define.FieldError{Tag: "ItemGroupDef", Dataset: "SUPPAE", Reason: define.ReasonUnresolved, Err: define.ErrUnresolvedReference}
	want := "ItemGroupDef: unresolved [dataset=SUPPAE]: unresolved reference"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
