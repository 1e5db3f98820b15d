package define_test

import (
	"errors"
	"testing"

	"github.com/vvka-141/definegen/pkg/define"
)

func TestGenerateConfigValidate(t *testing.T) {
	valid := define.GenerateConfig{ProjectPath: ".", OutputPath: "define.xml"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	invalid := define.GenerateConfig{Timeout: -1}
	err := invalid.Validate()
	if !errors.Is(err, define.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParseAuthMethod(t *testing.T) {
	tests := map[string]define.AuthMethod{
		"":         define.AuthMethodStandard,
		"aws":      define.AuthMethodAWSIAM,
		"Google":   define.AuthMethodGoogleIAM,
		"azure":    define.AuthMethodAzureEntraID,
		"password": define.AuthMethodStandard,
	}
	for in, want := range tests {
		got, err := define.ParseAuthMethod(in)
		if err != nil || got != want {
			t.Errorf("ParseAuthMethod(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := define.ParseAuthMethod("kerberos"); !errors.Is(err, define.ErrUnsupportedAuthMethod) {
		t.Errorf("expected ErrUnsupportedAuthMethod, got %v", err)
	}
}

func TestParseSourceType(t *testing.T) {
	for in, want := range map[string]define.SourceType{"": define.SourceCSV, "SQLite": define.SourceSQLite, "postgresql": define.SourcePostgres} {
		got, err := define.ParseSourceType(in)
		if err != nil || got != want {
			t.Errorf("ParseSourceType(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := define.ParseSourceType("excel"); !errors.Is(err, define.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
