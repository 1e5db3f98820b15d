package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/definegen/internal/source"
	"github.com/vvka-141/definegen/pkg/define"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// SourceConfig locates the metadata tables.
type SourceConfig struct {
	Type           string            `yaml:"type"`
	Path           string            `yaml:"path,omitempty"`
	Pattern        string            `yaml:"pattern,omitempty"`
	Connection     string            `yaml:"connection,omitempty"`
	Schema         string            `yaml:"schema,omitempty"`
	AuthMethod     string            `yaml:"auth_method,omitempty"`
	AWSRegion      string            `yaml:"aws_region,omitempty"`
	AzureTenantID  string            `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string            `yaml:"azure_client_id,omitempty"`
	GoogleInstance string            `yaml:"google_instance,omitempty"`
	Tables         map[string]string `yaml:"tables,omitempty"`
}

// OutputConfig controls where the document goes.
type OutputConfig struct {
	Path        string `yaml:"path,omitempty"`
	Stylesheet  string `yaml:"stylesheet,omitempty"`
	PushGateway string `yaml:"push_gateway,omitempty"`
}

// DefineConfig overrides document settings of the STUDY table.
type DefineConfig struct {
	Version         string `yaml:"version,omitempty"`
	Standard        string `yaml:"standard,omitempty"`
	Language        string `yaml:"language,omitempty"`
	Context         string `yaml:"context,omitempty"`
	AnalysisResults bool   `yaml:"analysis_results,omitempty"`
	Timeout         string `yaml:"timeout,omitempty"`
}

// ProjectConfig is the content of definegen.yaml.
type ProjectConfig struct {
	Source SourceConfig      `yaml:"source"`
	Output OutputConfig      `yaml:"output"`
	Define DefineConfig      `yaml:"define"`
	Study  map[string]string `yaml:"study,omitempty"`
}

const ConfigFileName = "definegen.yaml"

// Load reads definegen.yaml from the project directory. Environment
// references (${VAR}) in the connection string are expanded.
func Load(projectPath string) (*ProjectConfig, error) {
	configPath := filepath.Join(projectPath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", configPath, err, define.ErrInvalidConfig)
	}
	cfg.Source.Connection = os.ExpandEnv(cfg.Source.Connection)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return &cfg, nil
}

// Validate checks the values that have a fixed vocabulary.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if _, err := define.ParseSourceType(c.Source.Type); err != nil {
		errs = append(errs, fmt.Errorf("source.type: %w", err))
	}
	if _, err := define.ParseAuthMethod(c.Source.AuthMethod); err != nil {
		errs = append(errs, fmt.Errorf("source.auth_method: %w", err))
	}
	if _, err := c.Timeout(); err != nil {
		errs = append(errs, err)
	}
	for logical := range c.Source.Tables {
		if !known(logical) {
			errs = append(errs, fmt.Errorf("source.tables: unknown table %q: %w", logical, define.ErrInvalidConfig))
		}
	}
	return errors.Join(errs...)
}

// Timeout parses define.timeout. An empty value is no limit.
func (c *ProjectConfig) Timeout() (time.Duration, error) {
	if c.Define.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Define.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("define.timeout %q is not a valid duration: %w", c.Define.Timeout, define.ErrInvalidConfig)
	}
	return d, nil
}

// TableNames returns source.tables keyed by upper-case logical name.
func (c *ProjectConfig) TableNames() map[string]string {
	if len(c.Source.Tables) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Source.Tables))
	for logical, physical := range c.Source.Tables {
		out[strings.ToUpper(logical)] = physical
	}
	return out
}

func known(table string) bool {
	for _, t := range source.Tables {
		if strings.EqualFold(t, table) {
			return true
		}
	}
	return false
}
