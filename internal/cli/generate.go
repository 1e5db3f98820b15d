package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/definegen/internal/metrics"
	"github.com/vvka-141/definegen/internal/output"
	"github.com/vvka-141/definegen/internal/services"
	"github.com/vvka-141/definegen/internal/tui"
	"github.com/vvka-141/definegen/internal/watch"
	"github.com/vvka-141/definegen/pkg/define"
)

var generateCmd = &cobra.Command{
	Use:   "generate [project_path]",
	Short: "Compile the metadata tables into define.xml",
	Long: `Generate reads the metadata tables of a project and writes the Define-XML
document. Without a project path the current directory is used.

Settings are merged in this order (later wins):
  STUDY table < definegen.yaml < --set-file < --set < flags

Examples:
  definegen generate
  definegen generate ./study01 -o out/define.xml
  definegen generate --define-version 2.0.0 --set StudyName=CDISC01
  definegen generate --arm --standard ADaM
  definegen generate -o s3://submissions/study01/define.xml
  definegen generate --check        # exit 13 when define.xml is stale
  definegen generate --watch        # regenerate on every table change`,
	Args: OptionalProjectPath,
	RunE: runGenerate,
}

var (
	generateFlags     runFlags
	generateCheck     bool
	generateWatch     bool
	generatePushURL   string
	generateWatchWait time.Duration
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateFlags.register(generateCmd)
	generateCmd.Flags().BoolVar(&generateCheck, "check", false, "Fail with exit code 13 if the output differs from a fresh generation")
	generateCmd.Flags().BoolVar(&generateWatch, "watch", false, "Regenerate whenever a local source table or definegen.yaml changes")
	generateCmd.Flags().DurationVar(&generateWatchWait, "debounce", define.DefaultWatchDebounce, "Quiet period before a watched change triggers a run")
	generateCmd.Flags().StringVar(&generatePushURL, "push-gateway", "", "Push run metrics to this Prometheus Pushgateway URL")
	generateCmd.MarkFlagsMutuallyExclusive("check", "watch")
	generateCmd.ValidArgsFunction = completeDirectories
}

func runGenerate(cmd *cobra.Command, args []string) error {
	projectPath := projectPathArg(args)

	logger, flush, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer flush()

	plan, err := resolvePlan(cmd, projectPath, &generateFlags)
	if err != nil {
		return err
	}
	if generatePushURL != "" {
		plan.PushGateway = generatePushURL
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.New()
	gen := services.NewGenerator(logger,
		services.WithMetrics(rec),
		services.WithSourceSystemVersion(sourceSystemVersion()),
	)
	defer pushMetrics(rec, plan.PushGateway, logger)

	switch {
	case generateCheck:
		return runCheck(ctx, cmd, gen, plan, logger)
	case generateWatch:
		return runWatch(ctx, cmd, gen, plan, logger)
	default:
		_, err := generateOnce(ctx, cmd.ErrOrStderr(), gen, plan, logger)
		return err
	}
}

func generateOnce(ctx context.Context, out io.Writer, gen *services.Generator, plan *runPlan, logger define.Logger) (*services.Result, error) {
	dest, err := output.Open(ctx, plan.Config.OutputPath)
	if err != nil {
		return nil, err
	}
	open := services.SourceOpener(plan.Config.ProjectPath, plan.Source, logger)
	res, err := gen.Generate(ctx, open, dest, plan.Config)
	if err != nil {
		return nil, err
	}
	printResult(out, "Define-XML generated", dest.String(), res)
	return res, nil
}

func runCheck(ctx context.Context, cmd *cobra.Command, gen *services.Generator, plan *runPlan, logger define.Logger) error {
	dest, err := output.Open(ctx, plan.Config.OutputPath)
	if err != nil {
		return err
	}
	open := services.SourceOpener(plan.Config.ProjectPath, plan.Source, logger)
	out := cmd.ErrOrStderr()
	styled := tui.Styled(out)

	if _, err := gen.Check(ctx, open, dest, plan.Config); err != nil {
		if errors.Is(err, define.ErrOutOfDate) {
			fmt.Fprintln(out, tui.Failure(fmt.Sprintf("%s is out of date; run 'definegen generate' to refresh it", dest), styled))
		}
		return err
	}
	fmt.Fprintln(out, tui.Success(fmt.Sprintf("%s is up to date", dest), styled))
	return nil
}

// runWatch generates once and then again after every change. Failed runs
// are reported and the watch continues; only cancellation ends it.
func runWatch(ctx context.Context, cmd *cobra.Command, gen *services.Generator, plan *runPlan, logger define.Logger) error {
	if !plan.Source.Local() {
		return fmt.Errorf("--watch needs a local source, not %s: %w", plan.Source.Type, define.ErrInvalidConfig)
	}
	out := cmd.ErrOrStderr()

	paths := []string{plan.Source.Location(plan.Config.ProjectPath)}
	if plan.ConfigFile != "" {
		paths = append(paths, plan.ConfigFile)
	}
	paths = append(paths, generateFlags.setFiles...)

	opts := []watch.Option{watch.WithDebounce(generateWatchWait), watch.WithLogger(logger)}
	if !isRemote(plan.Config.OutputPath) {
		opts = append(opts, watch.WithIgnore(plan.Config.OutputPath))
	}
	w, err := watch.New(paths, opts...)
	if err != nil {
		return err
	}

	if _, err := generateOnce(ctx, out, gen, plan, logger); err != nil {
		logger.Error("Generation failed: %v", err)
	}
	logger.Info("Watching %d path(s) for changes, press Ctrl+C to stop", len(paths))

	err = w.Run(ctx, func(ctx context.Context, changed []string) error {
		logger.Info("Change detected in %d file(s), regenerating", len(changed))
		// definegen.yaml may be among the changes.
		current, err := resolvePlan(cmd, plan.Config.ProjectPath, &generateFlags)
		if err != nil {
			return err
		}
		_, err = generateOnce(ctx, out, gen, current, logger)
		return err
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func pushMetrics(rec *metrics.Recorder, url string, logger define.Logger) {
	if url == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	instance, _ := os.Hostname()
	if err := rec.Push(ctx, url, instance); err != nil {
		logger.Warn("%v", err)
		return
	}
	logger.Verbose("Pushed metrics to %s", url)
}

func printResult(out io.Writer, title, target string, res *services.Result) {
	styled := tui.Styled(out)
	r := res.Report
	rows := []tui.Row{
		{Label: "Output", Value: target},
		{Label: "Datasets", Value: strconv.Itoa(r.Datasets)},
		{Label: "Variables", Value: strconv.Itoa(r.Variables)},
		{Label: "Value lists", Value: fmt.Sprintf("%d (%d values)", r.ValueLists, r.Values)},
		{Label: "Codelists", Value: strconv.Itoa(r.Codelists)},
		{Label: "Methods", Value: strconv.Itoa(r.Methods)},
		{Label: "Comments", Value: strconv.Itoa(r.Comments)},
		{Label: "Documents", Value: strconv.Itoa(r.Documents)},
	}
	if r.Results > 0 {
		rows = append(rows, tui.Row{Label: "Analysis results", Value: strconv.Itoa(r.Results)})
	}
	rows = append(rows,
		tui.Row{Label: "Checksum", Value: res.Checksum},
		tui.Row{Label: "Elapsed", Value: res.Elapsed.Round(time.Millisecond).String()},
	)
	fmt.Fprintln(out, tui.Summary(title, rows, styled))
	if len(r.Orphans) > 0 {
		fmt.Fprintln(out, tui.Warning(fmt.Sprintf("%d unreferenced definition(s) dropped", len(r.Orphans)), styled))
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func isRemote(p string) bool {
	_, _, err := output.ParseS3URL(p)
	return err == nil
}
