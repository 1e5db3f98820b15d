package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vvka-141/definegen/internal/assemble"
	"github.com/vvka-141/definegen/internal/checksum"
	"github.com/vvka-141/definegen/internal/graph"
	"github.com/vvka-141/definegen/internal/loader"
	"github.com/vvka-141/definegen/internal/metrics"
	"github.com/vvka-141/definegen/internal/output"
	"github.com/vvka-141/definegen/internal/source"
	"github.com/vvka-141/definegen/internal/supp"
	"github.com/vvka-141/definegen/internal/xmltree"
	"github.com/vvka-141/definegen/pkg/define"
)

// Opener opens the metadata source of one run.
type Opener func(ctx context.Context) (source.Reader, error)

// Result is one generated document.
type Result struct {
	Document   []byte
	Checksum   string
	Normalized string
	Report     assemble.Report
	Elapsed    time.Duration
}

// Generator runs the metadata pipeline from source tables to a
// serialized document.
// Thread-Safety: safe for concurrent use; runs share no state besides the
// metrics recorder.
type Generator struct {
	logger  define.Logger
	now     func() time.Time
	metrics *metrics.Recorder
	hash    checksum.Calculator
	version string
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the clock used for CreationDateTime and timings.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithMetrics records every run on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(g *Generator) { g.metrics = r }
}

// WithSourceSystemVersion sets the SourceSystemVersion reported when the
// study does not name one.
func WithSourceSystemVersion(v string) Option {
	return func(g *Generator) { g.version = v }
}

// NewGenerator creates a Generator. It panics on a nil logger; a missing
// logger is a wiring mistake, not a runtime condition.
func NewGenerator(logger define.Logger, opts ...Option) *Generator {
	if logger == nil {
		panic("logger cannot be nil")
	}
	g := &Generator{logger: logger, now: time.Now, hash: checksum.New()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate opens the source, builds the document and writes it to dest.
// A nil dest only builds. The source is closed before Generate returns.
func (g *Generator) Generate(ctx context.Context, open Opener, dest output.Destination, cfg define.GenerateConfig) (res *Result, err error) {
	start := g.now()
	defer func() { g.record(res, err, start) }()

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	res, err = g.open(ctx, open, cfg)
	if err != nil {
		return nil, err
	}
	if dest != nil {
		if err := dest.Write(ctx, res.Document); err != nil {
			return nil, err
		}
		g.logger.Info("Wrote %s (%d bytes)", dest, len(res.Document))
	}
	return res, nil
}

// Check builds the document and compares it with the one stored at dest.
// Only the normalized checksums are compared, so a changed creation
// timestamp alone is not a difference. A stale or missing document is
// reported as ErrOutOfDate.
func (g *Generator) Check(ctx context.Context, open Opener, dest output.Destination, cfg define.GenerateConfig) (*Result, error) {
	res, err := g.Generate(ctx, open, nil, cfg)
	if err != nil {
		return nil, err
	}
	current, err := dest.Read(ctx)
	if errors.Is(err, output.ErrNotFound) {
		return res, fmt.Errorf("%s has not been generated: %w", dest, define.ErrOutOfDate)
	}
	if err != nil {
		return nil, err
	}
	if have := g.hash.CalculateNormalized(current); have != res.Normalized {
		return res, fmt.Errorf("%s differs from the metadata (have %.12s, want %.12s): %w",
			dest, have, res.Normalized, define.ErrOutOfDate)
	}
	g.logger.Info("%s is up to date", dest)
	return res, nil
}

func (g *Generator) open(ctx context.Context, open Opener, cfg define.GenerateConfig) (*Result, error) {
	r, err := open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			g.logger.Warn("Failed to close metadata source: %v", cerr)
		}
	}()
	return g.Build(ctx, r, cfg)
}

// Build runs the pipeline over an open reader.
func (g *Generator) Build(ctx context.Context, r source.Reader, cfg define.GenerateConfig) (*Result, error) {
	gr, err := loader.Load(ctx, r, loader.Options{
		DefineVersion:   cfg.DefineVersion,
		StandardType:    cfg.StandardType,
		AnalysisResults: cfg.AnalysisResults,
		Language:        cfg.Language,
		Context:         cfg.Context,
		StudyOverrides:  cfg.StudyOverrides,
		Logger:          g.logger,
	})
	if err != nil {
		return nil, err
	}
	if err := g.resolve(gr); err != nil {
		return nil, err
	}

	rendered, err := supp.Synthesize(gr)
	if err != nil {
		return nil, err
	}
	keep := assemble.Prune(gr, rendered, g.logger)
	root, err := assemble.Assemble(gr, rendered, keep, assemble.Options{
		Now:                 g.now,
		SourceSystemVersion: g.version,
	})
	if err != nil {
		return nil, err
	}
	if err := assemble.CheckClosure(root); err != nil {
		return nil, err
	}

	stylesheet := cfg.Stylesheet
	if stylesheet == "" {
		stylesheet = gr.Study.Stylesheet
	}
	var buf bytes.Buffer
	if err := xmltree.Write(&buf, root, stylesheet); err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	doc := buf.Bytes()
	res := &Result{
		Document:   doc,
		Checksum:   g.hash.CalculateRaw(doc),
		Normalized: g.hash.CalculateNormalized(doc),
		Report:     assemble.Summarize(root, keep),
	}
	g.logger.Verbose("Assembled %s document: %d datasets, %d items, %d pruned",
		gr.Profile, res.Report.Datasets, res.Report.Items, len(res.Report.Orphans))
	return res, nil
}

// resolve runs the mutating passes in order. Every pass sees the result
// of the previous one.
func (g *Generator) resolve(gr *graph.Graph) error {
	gr.PropagateOrdinals()
	if err := gr.BackfillValues(); err != nil {
		return err
	}
	if err := gr.BackfillAnalysisResults(); err != nil {
		return err
	}
	if err := supp.ExpandRepeats(gr); err != nil {
		return err
	}
	if err := supp.CanonicalizeExplicit(gr); err != nil {
		return err
	}
	gr.PropagateOrdinals()
	gr.DeriveFlags()
	return gr.ValidateReferences()
}

func (g *Generator) record(res *Result, err error, start time.Time) {
	elapsed := g.now().Sub(start)
	if res != nil {
		res.Elapsed = elapsed
	}
	if g.metrics == nil {
		return
	}
	if err != nil {
		g.metrics.RecordRun(metrics.OutcomeFailure, elapsed)
		return
	}
	g.metrics.RecordRun(metrics.OutcomeSuccess, elapsed)
	g.metrics.RecordDocument(res.Report.Counts(), len(res.Report.Orphans), len(res.Document))
}
