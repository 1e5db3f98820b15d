package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/definegen/internal/config"
	"github.com/vvka-141/definegen/internal/db"
	"github.com/vvka-141/definegen/internal/params"
	"github.com/vvka-141/definegen/internal/services"
	"github.com/vvka-141/definegen/pkg/define"
)

// runFlags holds the flags shared by generate and validate.
type runFlags struct {
	output        string
	defineVersion string
	standard      string
	arm           bool
	stylesheet    string
	language      string
	context       string
	sets          []string
	setFiles      []string
	source        string
	sourcePath    string
	connection    string
	schema        string
	authMethod    string
	timeout       time.Duration
}

// register adds the shared flags to cmd.
func (f *runFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "Output file or s3://bucket/key (default: define.xml in the project)")
	flags.StringVar(&f.defineVersion, "define-version", "", "Define-XML version: 2.0.0 or 2.1.0 (overrides the STUDY table)")
	flags.StringVar(&f.standard, "standard", "", "Standard of the study: SDTM, SEND or ADaM (overrides the STUDY table)")
	flags.BoolVar(&f.arm, "arm", false, "Include analysis results metadata (ADaM only)")
	flags.StringVar(&f.stylesheet, "stylesheet", "", "Stylesheet href written as an xml-stylesheet instruction")
	flags.StringVar(&f.language, "language", "", "xml:lang of translated text (default: en)")
	flags.StringVar(&f.context, "context", "", "def:Context of Define-XML 2.1 documents (Submission or Other)")
	flags.StringArrayVar(&f.sets, "set", nil, "Override a STUDY property (key=value, repeatable)")
	flags.StringSliceVar(&f.setFiles, "set-file", nil, "Read STUDY property overrides from a .env file (repeatable)")
	flags.StringVar(&f.source, "source", "", "Metadata source: csv, sqlite or postgres")
	flags.StringVar(&f.sourcePath, "source-path", "", "Tables directory or sqlite file, relative to the project")
	flags.StringVar(&f.connection, "connection", "", "PostgreSQL connection string (postgres sources)")
	flags.StringVar(&f.schema, "schema", "", "PostgreSQL schema holding the tables (default: public)")
	flags.StringVar(&f.authMethod, "auth-method", "", "PostgreSQL authentication: standard, aws, azure or google")
	flags.DurationVar(&f.timeout, "timeout", 0, "Abort the generation after this duration (e.g. 30s, 2m)")

	_ = cmd.RegisterFlagCompletionFunc("define-version", completeValues(defineVersions...))
	_ = cmd.RegisterFlagCompletionFunc("standard", completeValues(standardTypes...))
	_ = cmd.RegisterFlagCompletionFunc("source", completeValues(sourceTypes...))
	_ = cmd.RegisterFlagCompletionFunc("auth-method", completeValues(authMethods...))
	_ = cmd.RegisterFlagCompletionFunc("context", completeValues("Submission", "Other"))
}

// runPlan is everything one generation needs, resolved from flags,
// definegen.yaml and the environment.
type runPlan struct {
	Config      define.GenerateConfig
	Source      services.SourceOptions
	PushGateway string
	// ConfigFile is the loaded definegen.yaml, empty when there is none.
	ConfigFile string
}

// resolvePlan merges the settings of one run.
// Priority (highest to lowest): flags > --set > --set-file > definegen.yaml > STUDY table.
func resolvePlan(cmd *cobra.Command, projectPath string, f *runFlags) (*runPlan, error) {
	info, err := os.Stat(projectPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("project path %q is not a directory: %w", projectPath, define.ErrInvalidConfig)
	}

	projectCfg, err := loadProjectConfig(projectPath)
	if err != nil {
		return nil, err
	}
	if projectCfg == nil {
		projectCfg = &config.ProjectConfig{}
	}

	overrides, err := loadMergedOverrides(projectCfg, f.setFiles, f.sets)
	if err != nil {
		return nil, err
	}

	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, f.timeout)
	if err != nil {
		return nil, err
	}

	sourceType, err := define.ParseSourceType(firstSet(f.source, projectCfg.Source.Type))
	if err != nil {
		return nil, err
	}
	authMethod := firstSet(f.authMethod, projectCfg.Source.AuthMethod)
	if _, err := define.ParseAuthMethod(authMethod); err != nil {
		return nil, fmt.Errorf("auth method: %w", err)
	}

	plan := &runPlan{
		Config: define.GenerateConfig{
			ProjectPath:     projectPath,
			OutputPath:      outputPath(projectPath, firstSet(f.output, projectCfg.Output.Path)),
			DefineVersion:   firstSet(f.defineVersion, projectCfg.Define.Version),
			StandardType:    firstSet(f.standard, projectCfg.Define.Standard),
			AnalysisResults: f.arm || projectCfg.Define.AnalysisResults,
			Stylesheet:      firstSet(f.stylesheet, projectCfg.Output.Stylesheet),
			Language:        firstSet(f.language, projectCfg.Define.Language),
			Context:         firstSet(f.context, projectCfg.Define.Context),
			StudyOverrides:  overrides,
			Timeout:         timeout,
		},
		Source: services.SourceOptions{
			Type:    sourceType,
			Path:    firstSet(f.sourcePath, projectCfg.Source.Path),
			Pattern: projectCfg.Source.Pattern,
			Schema:  firstSet(f.schema, projectCfg.Source.Schema),
			Tables:  projectCfg.TableNames(),
			Connection: db.Options{
				Connection:     firstSet(f.connection, projectCfg.Source.Connection),
				AuthMethod:     authMethod,
				AWSRegion:      projectCfg.Source.AWSRegion,
				GoogleInstance: projectCfg.Source.GoogleInstance,
				AzureTenantID:  projectCfg.Source.AzureTenantID,
				AzureClientID:  projectCfg.Source.AzureClientID,
			},
		},
		PushGateway: projectCfg.Output.PushGateway,
	}
	if _, err := os.Stat(filepath.Join(projectPath, config.ConfigFileName)); err == nil {
		plan.ConfigFile = filepath.Join(projectPath, config.ConfigFileName)
	}
	if err := plan.Config.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// loadProjectConfig loads godotenv and project configuration.
// Returns nil config if definegen.yaml does not exist (not an error).
func loadProjectConfig(projectPath string) (*config.ProjectConfig, error) {
	_ = godotenv.Load(filepath.Join(projectPath, ".env"))

	projectCfg, err := config.Load(projectPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return projectCfg, nil
}

// loadMergedOverrides merges the STUDY property overrides of all layers.
func loadMergedOverrides(projectCfg *config.ProjectConfig, setFiles, sets []string) (map[string]string, error) {
	fromConfig, err := params.Normalize(projectCfg.Study)
	if err != nil {
		return nil, fmt.Errorf("%s study: %w", config.ConfigFileName, err)
	}
	layers := []map[string]string{fromConfig}

	for _, path := range setFiles {
		fromFile, err := params.ReadFile(path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, fromFile)
	}

	fromFlags, err := params.ParseKeyValuePairs(sets)
	if err != nil {
		return nil, err
	}
	layers = append(layers, fromFlags)

	merged := params.Merge(layers...)
	if len(merged) == 0 {
		return nil, nil
	}
	return merged, nil
}

// resolveEffectiveTimeout returns the effective timeout, preferring definegen.yaml if the flag wasn't set.
func resolveEffectiveTimeout(cmd *cobra.Command, projectCfg *config.ProjectConfig, flagTimeout time.Duration) (time.Duration, error) {
	if cmd.Flags().Changed("timeout") {
		if flagTimeout < 0 {
			return 0, fmt.Errorf("--timeout cannot be negative: %w", define.ErrInvalidConfig)
		}
		return flagTimeout, nil
	}
	return projectCfg.Timeout()
}

// outputPath places relative local outputs inside the project.
func outputPath(projectPath, p string) string {
	if p == "" {
		p = define.DefaultOutputFile
	}
	if strings.HasPrefix(p, "s3://") || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectPath, p)
}

func firstSet(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}
