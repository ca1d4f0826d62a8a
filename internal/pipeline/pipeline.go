// Package pipeline orchestrates sourcing, analysis, outreach generation,
// knowledge indexing and persistence for one run.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscout/internal/finance"
	"github.com/sells-group/leadscout/internal/knowledge"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/outreach"
	"github.com/sells-group/leadscout/internal/source"
	"github.com/sells-group/leadscout/internal/store"
)

const defaultBatchSize = 10

// Orchestrator drives a run through sourcing, per-record processing and
// reporting. Each run gets its own fresh knowledge index.
type Orchestrator struct {
	st        store.Store
	sourcer   source.Sourcer
	sources   []string
	analyzer  *finance.Analyzer
	outreach  outreach.Generator
	sinks     []store.LeadLogger
	index     *knowledge.Index
	batchSize int
	rateDelay time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithBatchSize caps how many sourced records one run processes.
func WithBatchSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithRateDelay sets the fixed pause between record processing starts.
func WithRateDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.rateDelay = d
		}
	}
}

// WithSinks adds lead sinks beyond the run store (XLSX workbook, Notion).
func WithSinks(sinks ...store.LeadLogger) Option {
	return func(o *Orchestrator) {
		o.sinks = append(o.sinks, sinks...)
	}
}

// New creates an Orchestrator. sources names the configured origins for
// the run record.
func New(st store.Store, sourcer source.Sourcer, sources []string, analyzer *finance.Analyzer, gen outreach.Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		st:        st,
		sourcer:   sourcer,
		sources:   sources,
		analyzer:  analyzer,
		outreach:  gen,
		index:     knowledge.NewIndex(),
		batchSize: defaultBatchSize,
		rateDelay: time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Index exposes the knowledge index built during the run, for queries
// and insight reports after Run returns.
func (o *Orchestrator) Index() *knowledge.Index {
	return o.index
}

// Run executes the full pipeline once and returns the finished run record.
// Individual record failures are isolated and reported; only store and
// cancellation errors abort the run.
func (o *Orchestrator) Run(ctx context.Context) (*model.Run, error) {
	log := zap.L().With(zap.Strings("sources", o.sources))
	log.Info("pipeline: starting run")

	run, err := o.st.CreateRun(ctx, o.sources)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	log = log.With(zap.String("run_id", run.ID))

	setState := func(state model.RunState) {
		run.State = state
		log.Info("pipeline: state change", zap.String("state", string(state)))
		if err := o.st.UpdateRunState(ctx, run.ID, state); err != nil {
			log.Warn("pipeline: persist state", zap.Error(err))
		}
	}

	setState(model.StateSourcing)
	raw, err := o.sourcer.Scan(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: sourcing")
	}
	sourced := len(raw)
	log.Info("pipeline: sourcing complete", zap.Int("records", sourced))

	if len(raw) > o.batchSize {
		log.Info("pipeline: truncating batch",
			zap.Int("sourced", sourced),
			zap.Int("batch_size", o.batchSize),
		)
		raw = raw[:o.batchSize]
	}

	// Failing sinks log and are skipped; persistence problems never
	// abort a run.
	logger := &store.Multi{
		Sinks: append([]store.LeadLogger{o.st.ForRun(run.ID)}, o.sinks...),
	}

	var leads []*model.Lead
	var failures []model.RecordResult

	if len(raw) > 0 {
		setState(model.StateProcessingBatch)

		limiter := rate.NewLimiter(rate.Every(o.rateDelay), 1)
		for i, record := range raw {
			if err := limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "pipeline: rate limit")
			}

			lead, err := o.processRecord(ctx, logger, record)
			if err != nil {
				log.Warn("pipeline: record failed",
					zap.Int("index", i),
					zap.String("address", record.Address),
					zap.Error(err),
				)
				failures = append(failures, model.RecordResult{
					Index:   i,
					Address: record.Address,
					Error:   err.Error(),
				})
				continue
			}
			leads = append(leads, lead)
		}
	}

	setState(model.StateReporting)
	report := BuildReport(leads, failures, sourced)

	if err := o.st.FinishRun(ctx, run.ID, report); err != nil {
		return nil, eris.Wrap(err, "pipeline: finish run")
	}
	run.State = model.StateIdle
	run.Report = report
	run.UpdatedAt = time.Now().UTC()

	log.Info("pipeline: run complete",
		zap.Int("leads", report.TotalLeads),
		zap.Int("failures", len(report.Failures)),
	)
	return run, nil
}

// processRecord turns one raw record into a stored, indexed lead.
func (o *Orchestrator) processRecord(ctx context.Context, logger store.LeadLogger, record model.RawLead) (*model.Lead, error) {
	if record.Address == "" {
		return nil, eris.New("pipeline: record has no address")
	}

	fa := o.analyzer.Analyze(ctx, record.Address, model.PropertyHints{
		RawText: record.RawText,
		Source:  record.Source,
	})

	message, err := o.outreach.Message(ctx, record.Owner, record.Address, fa)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: outreach for %s", record.Address)
	}

	lead := &model.Lead{
		Address:         record.Address,
		Owner:           record.Owner,
		Status:          model.StatusNew,
		EstimatedValue:  fa.EstimatedValue,
		Analysis:        fa,
		OutreachMessage: message,
		Source:          record.Source,
		Timestamp:       time.Now().UTC(),
	}

	o.index.Add(lead)

	if err := logger.LogLead(ctx, lead); err != nil {
		return nil, eris.Wrapf(err, "pipeline: log lead %s", lead.Address)
	}
	return lead, nil
}
