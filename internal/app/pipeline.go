// Package app runs the decade analysis end to end: load the input file,
// aggregate one metric per decade and league, then render and persist the
// summary.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/decades/internal/adapters/csvsource"
	"github.com/okian/decades/internal/adapters/render"
	"github.com/okian/decades/internal/adapters/repository"
	"github.com/okian/decades/internal/config"
	"github.com/okian/decades/internal/domain/decade"
	"github.com/okian/decades/pkg/logger"
	"github.com/okian/decades/pkg/metrics"
)

// Pipeline executes one configured analysis. It holds no data between runs.
type Pipeline struct {
	cfg      config.Config
	analysis config.Analysis

	logger  logger.Logger
	metrics *metrics.Manager
	store   repository.Store
	out     io.Writer
	now     func() time.Time
	newID   func() string
}

// Report describes a finished run.
type Report struct {
	RunID   string
	Result  decade.Result
	Table   decade.Table
	Outputs []string // files written, in order
}

// New validates cfg and constructs a Pipeline.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	analysis, err := cfg.Analysis()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:      *cfg,
		analysis: analysis,
		logger:   logger.Nop(),
		metrics:  metrics.Default(),
		out:      os.Stdout,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes the pipeline once. Unreadable input fails with an error
// wrapping csvsource.ErrUnreadable; an empty post-filter dataset fails with
// ErrEmptyResult before anything is rendered.
func (p *Pipeline) Run(ctx context.Context) (rep Report, err error) {
	rep.RunID = p.newID()
	log := p.logger.With(logger.String("run_id", rep.RunID))
	params := p.analysis.Params

	defer func() {
		p.metrics.MarkRun(p.now())
		if p.cfg.MetricsPath == "" {
			return
		}
		if werr := p.metrics.WriteTextfile(p.cfg.MetricsPath); werr != nil {
			log.Warn(ctx, "metrics textfile not written", logger.String("path", p.cfg.MetricsPath), logger.Error(werr))
		}
	}()

	// Load
	start := p.now()
	ds, err := csvsource.Load(ctx, p.cfg.Input, csvsource.Options{MetricFields: []string{params.MetricField}})
	p.metrics.ObserveStage(metrics.StageLoad, p.now().Sub(start))
	if err != nil {
		p.metrics.RecordError(metrics.StageLoad)
		return rep, fmt.Errorf("load: %w", err)
	}
	p.metrics.RecordLoaded(len(ds.Records))
	log.Info(ctx, "input loaded", logger.String("path", ds.Path), logger.Int("records", len(ds.Records)))
	if len(ds.MissingColumns) > 0 {
		log.Warn(ctx, "required columns missing",
			logger.Strings("missing", ds.MissingColumns), logger.Strings("available", ds.Columns))
	}

	// Aggregate
	start = p.now()
	rep.Result = decade.Aggregate(ds.Records, params)
	p.metrics.ObserveStage(metrics.StageAggregate, p.now().Sub(start))
	p.metrics.RecordFilter(rep.Result.Stats.Kept, rep.Result.Stats.Excluded)
	log.Debug(ctx, "records filtered",
		logger.Int("kept", rep.Result.Stats.Kept), logger.Any("excluded", rep.Result.Stats.Excluded))
	if rep.Result.Empty() {
		p.metrics.RecordError(metrics.StageAggregate)
		return rep, fmt.Errorf("%w: metric %q, years %d-%d, leagues %v",
			ErrEmptyResult, params.MetricField, params.Years.Min, params.Years.Max, params.Leagues)
	}
	rep.Table = decade.Pivot(rep.Result, params.Leagues)
	p.metrics.SetSummary(len(rep.Result.Rows), len(rep.Table.Decades))
	log.Info(ctx, "summary computed",
		logger.String("metric", params.MetricField),
		logger.Int("rows", len(rep.Result.Rows)),
		logger.Int("decades", len(rep.Table.Decades)))

	// Render
	start = p.now()
	err = p.render(ctx, &rep)
	p.metrics.ObserveStage(metrics.StageRender, p.now().Sub(start))
	if err != nil {
		p.metrics.RecordError(metrics.StageRender)
		return rep, err
	}

	// Persist
	if p.store != nil {
		start = p.now()
		err = p.persist(ctx, rep)
		p.metrics.ObserveStage(metrics.StagePersist, p.now().Sub(start))
		if err != nil {
			p.metrics.RecordError(metrics.StagePersist)
			return rep, err
		}
		log.Info(ctx, "summary stored", logger.String("store", p.cfg.StorePath))
	}

	for _, path := range rep.Outputs {
		log.Info(ctx, "output written", logger.String("path", path))
	}
	return rep, nil
}

func (p *Pipeline) labels() render.Labels {
	return render.Labels{Title: p.analysis.Preset.Title, YLabel: p.analysis.Preset.YLabel}
}

func (p *Pipeline) render(ctx context.Context, rep *Report) error {
	labels := p.labels()

	if p.cfg.PrintTable {
		if err := render.WriteTable(p.out, rep.Table, labels); err != nil {
			return fmt.Errorf("%w: table: %w", ErrRender, err)
		}
	}

	chartWritten := false
	if kind := p.analysis.Preset.ChartKind; kind != config.ChartNone {
		chart := render.ChartSpec{Kind: kind, Labels: labels, WidthIn: p.cfg.ChartWidthIn, HeightIn: p.cfg.ChartHeightIn}
		if err := render.WriteChart(rep.Table, chart, p.cfg.ChartPath); err != nil {
			return fmt.Errorf("%w: chart: %w", ErrRender, err)
		}
		rep.Outputs = append(rep.Outputs, p.cfg.ChartPath)
		chartWritten = true
	}

	if p.cfg.PivotCSVPath != "" {
		if err := render.SavePivotCSV(p.cfg.PivotCSVPath, rep.Table); err != nil {
			return fmt.Errorf("%w: pivot csv: %w", ErrRender, err)
		}
		rep.Outputs = append(rep.Outputs, p.cfg.PivotCSVPath)
	}

	if p.cfg.ReportPath != "" {
		data := render.ReportData{
			RunID:       rep.RunID,
			GeneratedAt: p.now(),
			Input:       p.cfg.Input,
			Labels:      labels,
			Table:       rep.Table,
			Stats:       rep.Result.Stats,
		}
		if chartWritten {
			data.ChartSrc = relativeTo(p.cfg.ReportPath, p.cfg.ChartPath)
		}
		if err := render.WriteHTMLReport(ctx, p.cfg.ReportPath, data); err != nil {
			return fmt.Errorf("%w: report: %w", ErrRender, err)
		}
		rep.Outputs = append(rep.Outputs, p.cfg.ReportPath)
	}
	return nil
}

func (p *Pipeline) persist(ctx context.Context, rep Report) error {
	params := p.analysis.Params
	_, err := p.store.SaveRun(ctx, repository.Run{
		ID:          rep.RunID,
		CreatedAt:   p.now(),
		Input:       p.cfg.Input,
		MetricField: params.MetricField,
		Years:       params.Years,
		Leagues:     params.Leagues,
		Total:       rep.Result.Stats.Total,
		Kept:        rep.Result.Stats.Kept,
		Rows:        rep.Result.Rows,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// relativeTo expresses target relative to the directory of from, for links
// inside generated files.
func relativeTo(from, target string) string {
	fromDir, err1 := filepath.Abs(filepath.Dir(from))
	abs, err2 := filepath.Abs(target)
	if err1 != nil || err2 != nil {
		return filepath.ToSlash(target)
	}
	rel, err := filepath.Rel(fromDir, abs)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
