package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"darkwebmonitor/internal/alerting"
	"darkwebmonitor/internal/analyzer"
	"darkwebmonitor/internal/config"
	"darkwebmonitor/internal/dedup"
	"darkwebmonitor/internal/infrastructure/collector"
	"darkwebmonitor/internal/infrastructure/scheduler"
	"darkwebmonitor/internal/infrastructure/slack"
	"darkwebmonitor/internal/infrastructure/storage"
	"darkwebmonitor/internal/logging"
	"darkwebmonitor/internal/policy"
	"darkwebmonitor/internal/ports"
	"darkwebmonitor/internal/usecase"
)

// Application wires configs to the monitoring pipeline and its lifecycle.
type Application struct {
	cfg     config.Config
	monitor *usecase.Monitor
	driver  ports.Scheduler
	logger  *slog.Logger
	db      *sql.DB
}

// New builds a runnable application. Registry and policy load failures abort
// startup: the pipeline cannot run without them. Everything else degrades.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry, err := analyzer.LoadRegistry(cfg.Monitor.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load target registry: %w", err)
	}

	classifier, err := analyzer.NewClassifier(analyzer.DefaultPatternSets())
	if err != nil {
		return nil, fmt.Errorf("compile severity patterns: %w", err)
	}
	base := analyzer.New(analyzer.NewMatcher(registry), classifier, nil)

	var stages []ports.AlertStage
	if cfg.Monitor.PolicyFile != "" {
		policyCfg, err := policy.LoadConfig(cfg.Monitor.PolicyFile)
		if err != nil {
			return nil, fmt.Errorf("load alert policy: %w", err)
		}
		stages = append(stages, policy.NewFilter(policyCfg, registry, nil))
	}

	collectors := collector.NewRegistry()
	collectors.Register(collector.NewRSSCollector())
	collectors.Register(collector.NewOnionSearchCollector(nil))

	queries := searchQueries(registry)
	sources := make([]ports.MentionSource, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		sources = append(sources, collector.NewConfiguredSource(
			collectors, src, queries, baseLogger.With("component", "source."+src.Name)))
	}

	var notifier ports.AlertNotifier
	if cfg.Notifications.Slack.WebhookURL != "" {
		notifier = slack.NewNotifier(cfg.Notifications.Slack.WebhookURL, nil)
	} else {
		baseLogger.Warn("no slack webhook configured, alerts go to console only")
	}
	dispatcher := alerting.NewDispatcher(notifier, nil)

	var db *sql.DB
	var archive ports.AlertArchive
	if cfg.Database.DSN != "" {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			baseLogger.Warn("alert archive unavailable", "error", err)
		} else {
			archive = storage.NewPostgresArchive(db)
		}
	}

	cache := dedup.NewCache()
	if err := cache.Load(cfg.Dedup.URLsFile, cfg.Dedup.HashesFile); err != nil {
		baseLogger.Warn("dedup state not loaded, starting empty", "error", err)
	} else {
		urls, hashes := cache.Size()
		baseLogger.Info("dedup state loaded", "urls", urls, "hashes", hashes)
	}

	monitor := usecase.NewMonitor(usecase.MonitorDeps{
		Sources:    sources,
		Analyzer:   base,
		Stages:     stages,
		Dispatcher: dispatcher,
		Archive:    archive,
		Cache:      cache,
		URLsFile:   cfg.Dedup.URLsFile,
		HashesFile: cfg.Dedup.HashesFile,
		Logger:     baseLogger.With("component", "monitor"),
	})

	driver := scheduler.NewIntervalScheduler(time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute)

	return &Application{
		cfg:     cfg,
		monitor: monitor,
		driver:  driver,
		logger:  baseLogger,
		db:      db,
	}, nil
}

// Run executes a single cycle when once is set, otherwise keeps cycling
// until the context is cancelled.
func (a *Application) Run(ctx context.Context, once bool) error {
	defer a.close()

	if once {
		a.monitor.RunCycle(ctx, time.Now())
		return nil
	}

	sched := usecase.NewScheduler(a.driver, a.monitor)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}

func (a *Application) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// searchQueries flattens the registry into the term list handed to
// search-style collectors.
func searchQueries(reg *analyzer.Registry) []string {
	queries := make([]string, 0, len(reg.Domains)+len(reg.Keywords)+len(reg.CompanyNames))
	queries = append(queries, reg.Domains...)
	queries = append(queries, reg.Keywords...)
	queries = append(queries, reg.CompanyNames...)
	return queries
}
