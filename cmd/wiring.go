package main

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/finance"
	"github.com/sells-group/leadscout/internal/outreach"
	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/source"
	"github.com/sells-group/leadscout/internal/store"
	anthropicpkg "github.com/sells-group/leadscout/pkg/anthropic"
	"github.com/sells-group/leadscout/pkg/deepseek"
)

// buildSourcer assembles the sourcer chain from URLs and file paths.
// With nothing configured and sample set, the canonical sample records
// are used; with nothing at all, sourcing is empty.
func buildSourcer(urls, files []string, sample bool) (source.Sourcer, []string) {
	var sourcers []source.Sourcer
	var names []string

	timeout := time.Duration(cfg.Sources.TimeoutSecs) * time.Second

	for _, u := range urls {
		sourcers = append(sourcers, source.NewWeb(u, timeout))
		names = append(names, u)
	}
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), ".xlsx") {
			sourcers = append(sourcers, &source.XLSXFile{Path: f})
			names = append(names, f)
			continue
		}
		zap.L().Warn("unsupported source file, skipping", zap.String("path", f))
	}

	if len(sourcers) == 0 {
		if sample {
			return &source.Sample{Source: "sample"}, []string{"sample"}
		}
		return &source.Static{}, nil
	}
	if len(sourcers) == 1 {
		return sourcers[0], names
	}
	return &source.Multi{Sourcers: sourcers}, names
}

// buildAnalyzer wires the financial analyzer, with DeepSeek reasoning
// when a key is configured and augmentation is enabled.
func buildAnalyzer() *finance.Analyzer {
	var augmenter *finance.Augmenter
	if cfg.Finance.Augment && cfg.DeepSeek.Key != "" {
		client := deepseek.NewClient(cfg.DeepSeek.Key,
			deepseek.WithBaseURL(cfg.DeepSeek.BaseURL),
			deepseek.WithModel(cfg.DeepSeek.Model),
			deepseek.WithTimeout(time.Duration(cfg.DeepSeek.TimeoutSecs)*time.Second),
		)
		augmenter = finance.NewAugmenter(client, cfg.DeepSeek.Model)
	}
	return finance.NewAnalyzer(cfg.Finance.BaseValue, augmenter)
}

// buildOutreach wires the outreach generator, template-only when no
// Anthropic key is configured.
func buildOutreach() (outreach.Generator, error) {
	var templates *outreach.Templates
	if cfg.Outreach.TemplatePath != "" {
		t, err := outreach.LoadTemplates(cfg.Outreach.TemplatePath)
		if err != nil {
			return nil, eris.Wrap(err, "load outreach templates")
		}
		templates = t
	}

	var client anthropicpkg.Client
	if cfg.Claude.Key != "" {
		client = anthropicpkg.NewClient(cfg.Claude.Key)
	}

	return outreach.NewClaudeGenerator(client, outreach.Config{
		Model:       cfg.Claude.Model,
		MaxTokens:   cfg.Claude.MaxTokens,
		Temperature: cfg.Claude.Temperature,
		SignName:    cfg.Outreach.SignName,
		SignTitle:   cfg.Outreach.SignTitle,
	}, templates), nil
}

// buildOrchestrator assembles a full pipeline for one run.
func buildOrchestrator(st store.Store, urls, files []string, sample bool, batchSize int) (*pipeline.Orchestrator, error) {
	sourcer, names := buildSourcer(urls, files, sample)

	gen, err := buildOutreach()
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithRateDelay(cfg.Pipeline.RateDelay),
		pipeline.WithSinks(initSinks()...),
	}
	if batchSize <= 0 {
		batchSize = cfg.Pipeline.BatchSize
	}
	if batchSize > 0 {
		opts = append(opts, pipeline.WithBatchSize(batchSize))
	}

	return pipeline.New(st, sourcer, names, buildAnalyzer(), gen, opts...), nil
}
