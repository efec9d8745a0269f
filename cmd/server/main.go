package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/auth"
	"github.com/mamadbah2/herdbook/internal/cache"
	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/repository/mongodb"
	"github.com/mamadbah2/herdbook/internal/repository/postgres"
	"github.com/mamadbah2/herdbook/internal/repository/postgrest"
	"github.com/mamadbah2/herdbook/internal/repository/sheets"
	"github.com/mamadbah2/herdbook/internal/scheduler"
	"github.com/mamadbah2/herdbook/internal/server/handlers"
	"github.com/mamadbah2/herdbook/internal/server/router"
	alertsvc "github.com/mamadbah2/herdbook/internal/service/alerts"
	commandsvc "github.com/mamadbah2/herdbook/internal/service/commands"
	financesvc "github.com/mamadbah2/herdbook/internal/service/finance"
	herdsvc "github.com/mamadbah2/herdbook/internal/service/herd"
	productionsvc "github.com/mamadbah2/herdbook/internal/service/production"
	reportingsvc "github.com/mamadbah2/herdbook/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/herdbook/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/herdbook/pkg/clients/whatsapp"
	"github.com/mamadbah2/herdbook/pkg/logger"
)

// recordStore is implemented by both backend drivers.
type recordStore interface {
	herdsvc.Store
	alertsvc.Store
	productionsvc.Store
	financesvc.Store
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	settings, err := cfg.Calendar.Settings()
	if err != nil {
		baseLogger.Fatal("invalid calendar settings", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg, baseLogger)
	defer closeStore()

	queryCache := cache.New(cfg.Cache.Size, cfg.Cache.TTL)

	herdService := herdsvc.NewService(store, queryCache, settings, logger.Named(baseLogger, "svc.herd"))
	alertService := alertsvc.NewService(store, queryCache, settings, cfg.Calendar.HorizonDays, logger.Named(baseLogger, "svc.alerts"))
	productionService := productionsvc.NewService(store, queryCache, settings, logger.Named(baseLogger, "svc.production"))
	financeService := financesvc.NewService(store, queryCache, settings, logger.Named(baseLogger, "svc.finance"))

	var snapshots reportingsvc.SnapshotStore
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewSnapshotRepository(ctx, cfg.MongoDB)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		snapshots = mongoRepo
	} else {
		baseLogger.Warn("mongodb not configured, snapshot history disabled")
	}

	var exporter reportingsvc.Exporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = sheets.NewSnapshotExporter(sheetsRepo, logger.Named(baseLogger, "export.sheets"))
	}

	reportingService := reportingsvc.NewService(reportingsvc.Sources{
		Herd:   herdService,
		Alerts: alertService,
		Milk:   productionService,
		Ledger: financeService,
	}, snapshots, exporter, settings, logger.Named(baseLogger, "svc.reporting"))

	h := router.Handlers{
		Herd:      handlers.NewHerdHandler(herdService, logger.Named(baseLogger, "handlers.herd")),
		Alerts:    handlers.NewAlertHandler(alertService, logger.Named(baseLogger, "handlers.alerts")),
		Milk:      handlers.NewMilkHandler(productionService, settings.Location, logger.Named(baseLogger, "handlers.milk")),
		Finance:   handlers.NewFinanceHandler(financeService, settings.Location, logger.Named(baseLogger, "handlers.finance")),
		Dashboard: handlers.NewDashboardHandler(reportingService, logger.Named(baseLogger, "handlers.dashboard")),
	}

	var sender scheduler.Sender
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(reportingService, alertService, productionService, logger.Named(baseLogger, "svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, cfg.Digest, logger.Named(baseLogger, "svc.whatsapp"))
		h.Webhook = handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
		sender = messagingSvc
	} else {
		baseLogger.Warn("whatsapp not configured, webhook and digests disabled")
	}

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience)
	engine := router.New(h, verifier, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(cfg.Digest, settings.Location, reportingService, sender, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Backend.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore connects the configured backend driver.
func openStore(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger) (recordStore, func()) {
	if cfg.Backend.Driver != config.DriverPostgres {
		return postgrest.New(cfg.Backend, logger.Named(baseLogger, "repo.postgrest")), func() {}
	}

	pool, err := postgres.Connect(ctx, cfg.Backend.DatabaseURL)
	if err != nil {
		baseLogger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		baseLogger.Fatal("failed to migrate postgres", zap.Error(err))
	}
	return postgres.New(pool, logger.Named(baseLogger, "repo.postgres")), pool.Close
}
