package usecase

import (
	"context"
	"log/slog"
	"time"

	"darkwebmonitor/internal/alerting"
	"darkwebmonitor/internal/analyzer"
	"darkwebmonitor/internal/dedup"
	"darkwebmonitor/internal/domain"
	"darkwebmonitor/internal/ports"
)

// MonitorDeps wires all driven adapters into the cycle orchestrator.
type MonitorDeps struct {
	Sources    []ports.MentionSource
	Analyzer   *analyzer.Analyzer
	Stages     []ports.AlertStage
	Dispatcher *alerting.Dispatcher
	Archive    ports.AlertArchive
	Cache      *dedup.Cache
	URLsFile   string
	HashesFile string
	Logger     *slog.Logger
}

// Monitor drives one batch per cycle through the pipeline: fetch, dedup,
// analyze, dispatch, persist. It owns the dedup cache exclusively; cycles
// are sequential, so no locking discipline is needed.
type Monitor struct {
	sources    []ports.MentionSource
	analyzer   *analyzer.Analyzer
	stages     []ports.AlertStage
	dispatcher *alerting.Dispatcher
	archive    ports.AlertArchive
	cache      *dedup.Cache
	urlsFile   string
	hashesFile string
	logger     *slog.Logger
}

// NewMonitor constructs the orchestration component.
func NewMonitor(deps MonitorDeps) *Monitor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		sources:    deps.Sources,
		analyzer:   deps.Analyzer,
		stages:     deps.Stages,
		dispatcher: deps.Dispatcher,
		archive:    deps.Archive,
		cache:      deps.Cache,
		urlsFile:   deps.URLsFile,
		hashesFile: deps.HashesFile,
		logger:     logger,
	}
}

// RunCycle executes one monitoring cycle. Nothing here is fatal: a failing
// collaborator yields an empty batch, a failed dispatch is logged and the
// mention stays processed, and persistence errors are best-effort.
func (m *Monitor) RunCycle(ctx context.Context, now time.Time) {
	m.logger.Info("starting monitoring cycle")

	batch := m.collect(ctx)
	fresh := m.admit(batch, now)

	dispatched := 0
	generated := 0
	for _, mention := range fresh {
		alert := m.analyze(mention)
		if alert == nil {
			continue
		}
		generated++

		m.logger.Warn("alert generated",
			"severity", alert.Severity,
			"term", alert.MatchedTerm,
			"confidence", alert.ConfidenceScore,
			"url", alert.URL)

		if m.dispatcher.Dispatch(ctx, *alert) {
			dispatched++
		} else {
			m.logger.Error("alert dispatch failed", "term", alert.MatchedTerm, "url", alert.URL)
		}

		if m.archive != nil {
			if err := m.archive.Store(ctx, *alert); err != nil {
				m.logger.Error("archive alert", "url", alert.URL, "error", err)
			}
		}
	}

	if err := m.cache.Save(m.urlsFile, m.hashesFile); err != nil {
		m.logger.Error("persist dedup cache", "error", err)
	}

	m.logger.Info("monitoring cycle completed",
		"fetched", len(batch),
		"new", len(fresh),
		"alerts", generated,
		"dispatched", dispatched)
}

// collect gathers batches from every source; a failing collaborator is
// logged and contributes an empty batch.
func (m *Monitor) collect(ctx context.Context) []domain.Mention {
	var batch []domain.Mention
	for _, src := range m.sources {
		results, err := src.Fetch(ctx)
		if err != nil {
			m.logger.Error("source fetch failed", "source", src.Name(), "error", err)
			continue
		}
		m.logger.Info("source fetched", "source", src.Name(), "count", len(results))
		batch = append(batch, results...)
	}
	return batch
}

// admit filters the batch through the dedup cache and records keys for
// every admitted mention, even those the downstream filters later reject.
func (m *Monitor) admit(batch []domain.Mention, now time.Time) []domain.Mention {
	fresh := make([]domain.Mention, 0, len(batch))
	for _, mention := range batch {
		mention = mention.Normalized(now)
		if !m.cache.ShouldProcess(mention) {
			continue
		}
		m.cache.Record(mention)
		fresh = append(fresh, mention)
	}
	return fresh
}

// analyze runs the base stage and then every configured enhancement stage;
// any stage may suppress the alert.
func (m *Monitor) analyze(mention domain.Mention) *domain.Alert {
	alert := m.analyzer.Analyze(mention)
	for _, stage := range m.stages {
		if alert == nil {
			return nil
		}
		alert = stage.Apply(alert)
	}
	return alert
}
