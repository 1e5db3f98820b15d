package tui

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode tells whether a human reads the output.
type Mode int

const (
	// ModeNonInteractive covers CI, scripts and redirected output.
	ModeNonInteractive Mode = iota
	ModeInteractive
)

// DetectMode reports ModeInteractive only when stdout is a terminal and
// none of DEFINEGEN_NON_INTERACTIVE, CI or NO_COLOR is set.
func DetectMode() Mode {
	return detect(os.Getenv, func() bool { return term.IsTerminal(int(os.Stdout.Fd())) })
}

func detect(getenv func(string) string, stdoutIsTerminal func() bool) Mode {
	switch strings.ToLower(getenv("DEFINEGEN_NON_INTERACTIVE")) {
	case "1", "true", "yes":
		return ModeNonInteractive
	}
	if getenv("CI") != "" || getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}
	if !stdoutIsTerminal() {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// Styled reports whether w should receive styled output: it must itself
// be a terminal, in interactive mode.
func Styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || DetectMode() != ModeInteractive {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
