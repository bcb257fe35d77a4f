package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"darkwebmonitor/internal/config"
	"darkwebmonitor/internal/domain"
	"darkwebmonitor/internal/ports"
)

// ConfiguredSource binds one configured source entry to its collector
// strategy and exposes it as a mention source to the orchestrator.
type ConfiguredSource struct {
	registry *Registry
	source   config.SourceConfig
	queries  []string
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.MentionSource = (*ConfiguredSource)(nil)

// NewConfiguredSource wires a config entry with the collector registry.
// queries are the monitored terms handed to search-style collectors.
func NewConfiguredSource(reg *Registry, src config.SourceConfig, queries []string, log *slog.Logger) *ConfiguredSource {
	return &ConfiguredSource{
		registry: reg,
		source:   src,
		queries:  queries,
		logger:   log,
		now:      time.Now,
	}
}

// Name identifies the source in orchestrator logs.
func (s *ConfiguredSource) Name() string {
	return s.source.Name
}

// Fetch executes the collector strategy and normalizes the batch: missing
// source names default to the configured name and absent timestamps to now.
func (s *ConfiguredSource) Fetch(ctx context.Context) ([]domain.Mention, error) {
	strategy, err := s.registry.Resolve(s.source.Collector)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.source.Name, err)
	}

	req := Request{
		SourceName: s.source.Name,
		Feeds:      s.source.Feeds,
		Queries:    s.queries,
		Options:    s.source.Options,
	}

	results, err := strategy.Collect(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("collect source %s: %w", s.source.Name, err)
	}

	now := s.now()
	for i := range results {
		if results[i].Source == "" {
			results[i].Source = s.source.Name
		}
		results[i] = results[i].Normalized(now)
	}

	s.debug("source produced mentions", "source", s.source.Name, "count", len(results))
	return results, nil
}

func (s *ConfiguredSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
