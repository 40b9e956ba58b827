package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/config"
	"github.com/mamadbah2/herdledger/internal/indicators"
	"github.com/mamadbah2/herdledger/internal/repository/mongodb"
	"github.com/mamadbah2/herdledger/internal/repository/sheets"
	"github.com/mamadbah2/herdledger/internal/scheduler"
	"github.com/mamadbah2/herdledger/internal/server/handlers"
	"github.com/mamadbah2/herdledger/internal/server/router"
	livestocksvc "github.com/mamadbah2/herdledger/internal/service/livestock"
	reportingsvc "github.com/mamadbah2/herdledger/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/herdledger/pkg/clients/whatsapp"
	"github.com/mamadbah2/herdledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{Env: cfg.App.Env, Level: cfg.App.LogLevel}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	// Money is exchanged as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongoRepo, err := mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := mongoRepo.EnsureIndexes(startupCtx); err != nil {
		baseLogger.Fatal("failed to ensure mongodb indexes", zap.Error(err))
	}

	formatter, err := indicators.NewFormatter(cfg.Locale.Language, cfg.Locale.Currency)
	if err != nil {
		baseLogger.Fatal("failed to init formatter", zap.Error(err))
	}

	var reportingOpts []reportingsvc.Option
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		reportingOpts = append(reportingOpts, reportingsvc.WithSheet(sheetsRepo))
		baseLogger.Info("google sheets export enabled")
	} else {
		baseLogger.Warn("google sheets not configured, snapshot export disabled")
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		reportingOpts = append(reportingOpts, reportingsvc.WithDigest(whatsClient, cfg.WhatsApp.DigestRecipient))
		baseLogger.Info("whatsapp digest enabled")
	} else {
		baseLogger.Warn("whatsapp not configured, snapshot digest disabled")
	}

	livestockSvc := livestocksvc.NewService(mongoRepo.Animals(), mongoRepo.Costs(), mongoRepo.Settings(), baseLogger.Named("svc.livestock"))
	reportingSvc := reportingsvc.NewService(reportingsvc.Stores{
		Animals:   mongoRepo.Animals(),
		Costs:     mongoRepo.Costs(),
		Settings:  mongoRepo.Settings(),
		Snapshots: mongoRepo.Snapshots(),
	}, formatter, baseLogger.Named("svc.reporting"), reportingOpts...)

	engine := router.New(router.Handlers{
		Animals:   handlers.NewAnimalHandler(livestockSvc, baseLogger.Named("handlers.animals")),
		Settings:  handlers.NewSettingsHandler(livestockSvc, baseLogger.Named("handlers.settings")),
		Dashboard: handlers.NewDashboardHandler(reportingSvc, baseLogger.Named("handlers.dashboard")),
	}, baseLogger.Named("router"))

	if cfg.Reporting.Enabled {
		sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
