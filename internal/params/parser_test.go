package params

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/definegen/pkg/define"
)

func TestParseKeyValuePairs(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    map[string]string
		wantErr string
	}{
		{
			name:  "single pair",
			input: []string{"StudyName=CDISC01"},
			want:  map[string]string{"StudyName": "CDISC01"},
		},
		{
			name:  "canonical spelling",
			input: []string{"studyname=CDISC01", "PROTOCOLNAME=P-01"},
			want:  map[string]string{"StudyName": "CDISC01", "ProtocolName": "P-01"},
		},
		{
			name:  "nil input",
			input: nil,
			want:  map[string]string{},
		},
		{
			name:  "empty value",
			input: []string{"Originator="},
			want:  map[string]string{"Originator": ""},
		},
		{
			name:  "value with equals",
			input: []string{"StudyDescription=a=b"},
			want:  map[string]string{"StudyDescription": "a=b"},
		},
		{
			name:    "missing equals",
			input:   []string{"noequalssign"},
			wantErr: "not in key=value format",
		},
		{
			name:    "empty key",
			input:   []string{"=value"},
			wantErr: "empty property name",
		},
		{
			name:    "unknown property",
			input:   []string{"Sponsor=ACME"},
			wantErr: "unknown study property",
		},
		{
			name:  "duplicate key last wins",
			input: []string{"StudyName=A", "studyname=B"},
			want:  map[string]string{"StudyName": "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyValuePairs(tt.input)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got: %v", tt.wantErr, err)
				}
				if !errors.Is(err, define.ErrInvalidConfig) {
					t.Fatalf("Expected ErrInvalidConfig, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Length mismatch: got %d, want %d", len(got), len(tt.want))
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("Key %q: got %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.env")
	content := `# overrides for the dry run
StudyName=CDISC01
studydescription="Pilot study"
Originator='ACME'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"StudyName":        "CDISC01",
		"StudyDescription": "Pilot study",
		"Originator":       "ACME",
	}, got)

	_, err = ReadFile(filepath.Join(t.TempDir(), "absent.env"))
	assert.ErrorIs(t, err, define.ErrInvalidConfig)
}

func TestMerge(t *testing.T) {
	got := Merge(
		map[string]string{"StudyName": "yaml", "Originator": "yaml"},
		nil,
		map[string]string{"StudyName": "flag"},
	)
	assert.Equal(t, map[string]string{"StudyName": "flag", "Originator": "yaml"}, got)
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(map[string]string{"protocolname": "P"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ProtocolName": "P"}, got)

	_, err = Normalize(map[string]string{"Bogus": "x"})
	assert.ErrorIs(t, err, define.ErrInvalidConfig)
}

func TestNormalizeRejectsAliases(t *testing.T) {
	_, err := Normalize(map[string]string{"studyname": "a", "StudyName": "b"})
	require.ErrorIs(t, err, define.ErrInvalidConfig)
	assert.ErrorContains(t, err, `StudyName is set as both "StudyName" and "studyname"`)
}

func TestReadFileRejectsAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.env")
	require.NoError(t, os.WriteFile(path, []byte("StudyName=A\nSTUDYNAME=B\n"), 0o644))

	_, err := ReadFile(path)
	assert.ErrorIs(t, err, define.ErrInvalidConfig)
}
