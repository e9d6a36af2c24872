package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dealsight/dealsight/internal/config"
	"github.com/dealsight/dealsight/internal/delivery/httpapi"
	"github.com/dealsight/dealsight/internal/delivery/telegram"
	"github.com/dealsight/dealsight/internal/domain"
	"github.com/dealsight/dealsight/internal/infra/db"
	"github.com/dealsight/dealsight/internal/infra/ingestfeed"
	"github.com/dealsight/dealsight/internal/infra/log"
	"github.com/dealsight/dealsight/internal/infra/mail"
	"github.com/dealsight/dealsight/internal/infra/render"
	"github.com/dealsight/dealsight/internal/usecase"
)

type App struct {
	cfg          config.Config
	orchestrator *usecase.Orchestrator
	feedFactory  domain.IngestFeedFactory
	httpServer   *httpapi.Server
	cron         *cron.Cron
	logger       *zap.Logger
	cleanupFn    func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	userRepo := db.NewUserRepository(dbConn)
	alertRepo := db.NewAlertRepository(dbConn)
	listingRepo := db.NewListingRepository(dbConn)
	logRepo := db.NewNotificationLogRepository(dbConn)

	deliverer, err := buildDeliverer(cfg, logger)
	if err != nil {
		return nil, err
	}

	orchestrator := usecase.NewOrchestrator(
		userRepo,
		alertRepo,
		listingRepo,
		logRepo,
		render.NewRenderer(),
		deliverer,
		cfg.DeliveryTimeout,
		cfg.ProcessingStaleAfter,
		logger,
	)

	var feedFactory domain.IngestFeedFactory
	if cfg.IngestFeedWSURL != "" {
		feedFactory = ingestfeed.NewWSFactory(cfg.IngestFeedWSURL, cfg.IngestFeedReadTimeout, logger)
	}

	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{
		cfg:          cfg,
		orchestrator: orchestrator,
		feedFactory:  feedFactory,
		httpServer:   httpapi.NewServer(cfg.HTTPAddr, orchestrator, logger),
		cron:         cron.New(),
		logger:       logger,
		cleanupFn:    cleanup,
	}, nil
}

func buildDeliverer(cfg config.Config, logger *zap.Logger) (usecase.Deliverer, error) {
	switch cfg.DeliveryChannel {
	case "telegram":
		api, err := telegram.NewAPI(cfg.TelegramBotToken)
		if err != nil {
			return nil, fmt.Errorf("telegram api: %w", err)
		}
		return telegram.NewNotifier(api, logger), nil
	case "email":
		return mail.NewResendClient(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.ResendFromEmail, cfg.ResendTimeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown delivery channel %q", cfg.DeliveryChannel)
	}
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("dealsight service starting")

	if err := a.registerSweeps(ctx); err != nil {
		return err
	}
	a.cron.Start()

	if a.feedFactory != nil {
		go a.runIngestFeed(ctx)
	} else {
		a.logger.Info("ingest feed disabled, instant alerts will not fire")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.httpServer.Start()
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (a *App) registerSweeps(ctx context.Context) error {
	entries := []struct {
		name string
		spec string
		run  func(context.Context, time.Time) error
	}{
		{"evaluate", a.cfg.EvaluateCron, func(ctx context.Context, now time.Time) error {
			_, err := a.orchestrator.EvaluateAndSchedule(ctx, now)
			return err
		}},
		{"process", a.cfg.ProcessCron, func(ctx context.Context, now time.Time) error {
			_, err := a.orchestrator.ProcessDue(ctx, now)
			return err
		}},
		{"recover", a.cfg.RecoverCron, func(ctx context.Context, now time.Time) error {
			_, err := a.orchestrator.RecoverStale(ctx, now)
			return err
		}},
	}

	for _, entry := range entries {
		entry := entry
		_, err := a.cron.AddFunc(entry.spec, func() {
			// Watchdog around the whole sweep so a hung tick cannot wedge
			// the scheduler.
			sweepCtx, cancel := context.WithTimeout(ctx, a.cfg.SweepTimeout)
			defer cancel()
			if err := entry.run(sweepCtx, time.Now().UTC()); err != nil {
				a.logger.Error("sweep failed", zap.String("sweep", entry.name), zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("register %s sweep (%q): %w", entry.name, entry.spec, err)
		}
	}
	return nil
}

// runIngestFeed keeps one subscription to the ingestion event feed alive,
// triggering the instant-alert path once per committed batch.
func (a *App) runIngestFeed(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		client, err := a.feedFactory.Connect(ctx)
		if err != nil {
			a.logger.Warn("ingest feed connect failed, retrying", zap.Error(err))
			if !sleepCtx(ctx, a.cfg.IngestFeedReconnectWait) {
				return
			}
			continue
		}

		done := make(chan struct{})
		var closeOnce sync.Once
		closeClient := func() { closeOnce.Do(func() { _ = client.Close() }) }
		// Unblocks the read on shutdown; exits when the connection is
		// replaced so reconnects do not accumulate watchers.
		go func() {
			select {
			case <-ctx.Done():
				closeClient()
			case <-done:
			}
		}()

		a.consumeFeed(ctx, client)
		close(done)
		closeClient()

		if !sleepCtx(ctx, a.cfg.IngestFeedReconnectWait) {
			return
		}
	}
}

func (a *App) consumeFeed(ctx context.Context, client domain.IngestFeedClient) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		event, err := client.Receive(ctx)
		if err != nil {
			a.logger.Warn("ingest feed receive error", zap.Error(err))
			return
		}
		if event == nil {
			continue
		}

		a.logger.Info(
			"ingestion batch committed",
			zap.String("source", event.Source),
			zap.Int("count", event.Count),
		)
		if _, err := a.orchestrator.TriggerInstant(ctx, time.Now().UTC()); err != nil {
			a.logger.Warn("instant trigger failed", zap.Error(err))
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (a *App) Shutdown() {
	a.logger.Info("dealsight service shutting down")

	cronCtx := a.cron.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("failed to stop http server", zap.Error(err))
	}

	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
