package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"EditalScanner/internal/config"
	"EditalScanner/internal/domain"
	"EditalScanner/internal/infrastructure/catalog"
	"EditalScanner/internal/infrastructure/gazette"
	"EditalScanner/internal/infrastructure/notify"
	"EditalScanner/internal/infrastructure/scheduler"
	"EditalScanner/internal/infrastructure/textract"
	"EditalScanner/internal/logging"
	"EditalScanner/internal/ports"
	"EditalScanner/internal/scanner"
	"EditalScanner/internal/storage"
	"EditalScanner/internal/usecase"
	"EditalScanner/internal/whitelist"
)

// Application wires configuration to use cases and lifecycle pieces.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	store     *storage.Store
	catalog   *catalog.SQLite
	boards    whitelist.Snapshot
	jobTitles whitelist.Snapshot

	pipeline  *usecase.Pipeline
	scheduled *usecase.Scheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	boards, err := whitelist.Load(cfg.Whitelists.BoardsPath, whitelist.KindBoard)
	if err != nil {
		return nil, fmt.Errorf("load board whitelist: %w", err)
	}
	jobTitles, err := whitelist.Load(cfg.Whitelists.JobTitlesPath, whitelist.KindJobTitle)
	if err != nil {
		return nil, fmt.Errorf("load job title whitelist: %w", err)
	}

	store := storage.NewStore(cfg.Data.SummariesDir, cfg.Data.BackupsDir, cfg.Data.ExamplesDir)

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	registry := scanner.NewRegistry()
	registry.Register(gazette.NewDOUScanner(nil, baseLogger.With("component", "scanner.dou")))

	source := gazette.NewStrategySource(registry, cfg.Gazettes, baseLogger.With("component", "source"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:          source,
		Catalog:         cat,
		Extractor:       newExtractor(cfg, baseLogger),
		Store:           store,
		Notifier:        newNotifier(cfg, baseLogger),
		Boards:          boards,
		JobTitles:       jobTitles,
		FallbackPrefix:  cfg.Extraction.FallbackPrefix(),
		NotifyThreshold: cfg.Notifications.Threshold,
		Logger:          baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCron(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
	scheduled := usecase.NewScheduler(driver, pipeline, cfg.Scan.LookbackDays,
		baseLogger.With("component", "scheduler"))

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		store:     store,
		catalog:   cat,
		boards:    boards,
		jobTitles: jobTitles,
		pipeline:  pipeline,
		scheduled: scheduled,
	}, nil
}

// newExtractor picks the text source: a remote extraction service, a
// local directory of pre-downloaded texts, or the gazette page itself.
func newExtractor(cfg config.Config, log *slog.Logger) ports.TextExtractor {
	switch {
	case cfg.Textract.ServiceURL != "":
		return textract.NewHTTPExtractor(cfg.Textract.ServiceURL, cfg.Textract.APIKey)
	case cfg.Textract.TextDir != "":
		return textract.NewFileExtractor(cfg.Textract.TextDir)
	default:
		return gazette.NewPageExtractor(nil, log.With("component", "extractor"))
	}
}

// newNotifier assembles the configured channels into a first-success
// chain. Returns nil when nothing is configured.
func newNotifier(cfg config.Config, log *slog.Logger) ports.Notifier {
	var targets []ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		targets = append(targets, notify.NewTelegram(
			cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID))
	}
	if cfg.Notifications.Webhook.URL != "" {
		targets = append(targets, notify.NewWebhook(cfg.Notifications.Webhook.URL))
	}
	if len(targets) == 0 {
		return nil
	}
	return notify.NewChain(log.With("component", "notify"), targets...)
}

// Config returns the effective configuration.
func (a *Application) Config() config.Config { return a.cfg }

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger { return a.logger }

// Pipeline exposes the ingestion use case for one-off commands.
func (a *Application) Pipeline() *usecase.Pipeline { return a.pipeline }

// Store exposes the summary store for review tooling.
func (a *Application) Store() *storage.Store { return a.store }

// Boards returns the loaded board whitelist.
func (a *Application) Boards() whitelist.Snapshot { return a.boards }

// JobTitles returns the loaded job title whitelist.
func (a *Application) JobTitles() whitelist.Snapshot { return a.jobTitles }

// RunOnce executes a single scan ending today. lookbackDays below 1
// falls back to the configured window.
func (a *Application) RunOnce(ctx context.Context, lookbackDays int) (usecase.RunReport, error) {
	if lookbackDays < 1 {
		lookbackDays = a.cfg.Scan.LookbackDays
	}
	if lookbackDays < 1 {
		lookbackDays = 7
	}

	to := domain.DateOf(time.Now().In(a.cfg.Scheduler.Location()))
	from := to.AddDays(-lookbackDays)
	return a.pipeline.ProcessWindow(ctx, from, to)
}

// RunScheduled starts the cron loop and blocks until ctx is canceled.
func (a *Application) RunScheduled(ctx context.Context) error {
	if err := a.scheduled.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("scheduler started",
		"cron", a.cfg.Scheduler.CronExpression, "timezone", a.cfg.Scheduler.Location().String())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.scheduled.Stop(stopCtx)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.catalog == nil {
		return nil
	}
	return a.catalog.Close()
}
