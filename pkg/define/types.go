package define

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SourceType selects the backend holding the metadata tables.
type SourceType string

const (
	SourceCSV      SourceType = "csv"
	SourceSQLite   SourceType = "sqlite"
	SourcePostgres SourceType = "postgres"
)

// ParseSourceType accepts the names used in definegen.yaml and on the command line.
func ParseSourceType(s string) (SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return SourceCSV, nil
	case "sqlite", "sqlite3":
		return SourceSQLite, nil
	case "postgres", "postgresql", "pg":
		return SourcePostgres, nil
	default:
		return "", fmt.Errorf("unknown source type %q: %w", s, ErrInvalidConfig)
	}
}

// GenerateConfig contains all parameters needed for one document generation.
type GenerateConfig struct {
	// ProjectPath is the directory holding definegen.yaml and, for csv sources, the tables.
	ProjectPath string

	// OutputPath is a local file path or an s3://bucket/key URL.
	OutputPath string

	// DefineVersion overrides the STUDY table's DefineVersion (e.g. "2.0.0", "2.1.0").
	DefineVersion string

	// StandardType overrides the STUDY table's StandardType (SDTM, SEND, ADaM).
	StandardType string

	// AnalysisResults enables analysis results metadata for ADaM studies.
	AnalysisResults bool

	// Stylesheet is written as an xml-stylesheet processing instruction when set.
	Stylesheet string

	// Language is the xml:lang for translated text.
	Language string

	// Context is the Define 2.1 def:Context attribute value.
	Context string

	// StudyOverrides replace STUDY table properties.
	StudyOverrides map[string]string

	// Timeout bounds the whole generation; zero means no limit.
	Timeout time.Duration
}

// Validate checks if the GenerateConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *GenerateConfig) Validate() error {
	var errs []error

	if c.ProjectPath == "" {
		errs = append(errs, fmt.Errorf("ProjectPath is required: %w", ErrInvalidConfig))
	}

	if c.OutputPath == "" {
		errs = append(errs, fmt.Errorf("OutputPath is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	for k := range c.StudyOverrides {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, fmt.Errorf("study override with empty property name: %w", ErrInvalidConfig))
			break
		}
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance).
	GoogleInstance string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod maps configuration names to an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "gcp", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("%q: %w", s, ErrUnsupportedAuthMethod)
	}
}
