package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/agrovista/agrovista/internal/config"
	"github.com/agrovista/agrovista/internal/repository/localstore"
	"github.com/agrovista/agrovista/internal/repository/sheets"
	"github.com/agrovista/agrovista/internal/scheduler"
	"github.com/agrovista/agrovista/internal/seed"
	"github.com/agrovista/agrovista/internal/server/handlers"
	"github.com/agrovista/agrovista/internal/server/router"
	cropssvc "github.com/agrovista/agrovista/internal/service/crops"
	inventorysvc "github.com/agrovista/agrovista/internal/service/inventory"
	monitoringsvc "github.com/agrovista/agrovista/internal/service/monitoring"
	reportingsvc "github.com/agrovista/agrovista/internal/service/reporting"
	"github.com/agrovista/agrovista/pkg/clients/weather"
	"github.com/agrovista/agrovista/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := localstore.New(cfg.Store.Path, baseLogger.Named("repo.localstore"))
	if err != nil {
		baseLogger.Fatal("failed to init local store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			baseLogger.Error("failed to close local store", zap.Error(err))
		}
	}()

	ctx := context.Background()

	cropsSvc, err := cropssvc.NewService(ctx, store, seed.Crops(), baseLogger.Named("svc.crops"))
	if err != nil {
		baseLogger.Fatal("failed to init crops service", zap.Error(err))
	}

	inventorySvc, err := inventorysvc.NewService(ctx, store, seed.Inventory(), baseLogger.Named("svc.inventory"))
	if err != nil {
		baseLogger.Fatal("failed to init inventory service", zap.Error(err))
	}

	monitoringSvc := monitoringsvc.NewService(seed.Monitoring(), baseLogger.Named("svc.monitoring"))
	reportingSvc := reportingsvc.NewService(cropsSvc, inventorySvc, monitoringSvc, baseLogger.Named("svc.reporting"))

	// Optional report export
	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		sheetExporter, err := sheets.NewGoogleSheetExporter(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
		baseLogger.Info("sheets report export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, report export disabled")
	}

	// Optional external environmental feed
	var weatherClient weather.Client
	if cfg.WeatherEnabled() {
		weatherClient = weather.NewClient(cfg.Weather)
		baseLogger.Info("weather feed enabled")
	} else {
		baseLogger.Warn("weather feed not configured, monitoring uses seed data")
	}

	cropsHandler := handlers.NewCropsHandler(cropsSvc, baseLogger.Named("handlers.crops"))
	inventoryHandler := handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory"))
	dashboardHandler := handlers.NewDashboardHandler(reportingSvc, monitoringSvc, baseLogger.Named("handlers.dashboard"))
	reportsHandler := handlers.NewReportsHandler(reportingSvc, exporter, baseLogger.Named("handlers.reports"))
	engine := router.New(cropsHandler, inventoryHandler, dashboardHandler, reportsHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reportingSvc, monitoringSvc, inventorySvc, exporter, weatherClient, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-signalCtx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
