package tui

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		terminal bool
		want     Mode
	}{
		{"terminal", nil, true, ModeInteractive},
		{"redirected", nil, false, ModeNonInteractive},
		{"opt out", map[string]string{"DEFINEGEN_NON_INTERACTIVE": "1"}, true, ModeNonInteractive},
		{"opt out true", map[string]string{"DEFINEGEN_NON_INTERACTIVE": "TRUE"}, true, ModeNonInteractive},
		{"opt out other value", map[string]string{"DEFINEGEN_NON_INTERACTIVE": "0"}, true, ModeInteractive},
		{"ci", map[string]string{"CI": "true"}, true, ModeNonInteractive},
		{"no color", map[string]string{"NO_COLOR": "1"}, true, ModeNonInteractive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			got := detect(getenv, func() bool { return tt.terminal })
			if got != tt.want {
				t.Errorf("detect() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDetectModeInTests(t *testing.T) {
	// go test never runs with stdout on a terminal.
	t.Setenv("DEFINEGEN_NON_INTERACTIVE", "")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")
	if got := DetectMode(); got != ModeNonInteractive {
		t.Errorf("DetectMode() = %d, want ModeNonInteractive", got)
	}
}
