package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/agrovista/agrovista/internal/config"
	"github.com/agrovista/agrovista/internal/domain/models"
	"github.com/agrovista/agrovista/internal/repository/sheets"
	"github.com/agrovista/agrovista/internal/service/monitoring"
	"github.com/agrovista/agrovista/internal/service/reporting"
	"github.com/agrovista/agrovista/pkg/clients/weather"
)

// InventoryLister provides the inventory snapshot for low-stock alerts.
type InventoryLister interface {
	List() []models.InventoryItem
}

// Scheduler manages the periodic jobs: the daily report snapshot with its
// low-stock alert, and the weather feed refresh. Exporter and weather client
// are optional; the corresponding work is skipped when they are nil.
type Scheduler struct {
	cron          *cron.Cron
	reportingSvc  *reporting.Service
	monitoringSvc *monitoring.Service
	inventory     InventoryLister
	exporter      sheets.Exporter
	weatherClient weather.Client
	cfg           config.Config
	logger        *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, monitoringSvc *monitoring.Service, inventory InventoryLister, exporter sheets.Exporter, weatherClient weather.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cron.Option{}
	if loc, err := time.LoadLocation(cfg.Reporting.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("unknown timezone, using local", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:          cron.New(opts...),
		reportingSvc:  reportingSvc,
		monitoringSvc: monitoringSvc,
		inventory:     inventory,
		exporter:      exporter,
		weatherClient: weatherClient,
		cfg:           cfg,
		logger:        logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.runDailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}

	if s.weatherClient != nil {
		if _, err := s.cron.AddFunc(s.cfg.Weather.RefreshCron, s.refreshWeather); err != nil {
			s.logger.Error("failed to schedule weather refresh", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report := s.reportingSvc.Report()
	s.logger.Info("daily report",
		zap.Int("total_crops", report.Production.TotalCrops),
		zap.Float64("total_area", report.Production.TotalArea),
		zap.Float64("estimated_yield", report.Production.EstimatedYield),
		zap.Int("upcoming_harvests", report.Planning.UpcomingHarvests),
		zap.Int("low_stock", report.Inventory.LowStockCount))

	for _, item := range s.inventory.List() {
		if item.IsLowStock() {
			s.logger.Warn("low stock alert",
				zap.String("item", item.Name),
				zap.Float64("quantity", item.Quantity),
				zap.Float64("min_stock", item.MinStock),
				zap.String("unit", item.Unit))
		}
	}

	if s.exporter == nil {
		return
	}

	if err := s.exporter.AppendReport(ctx, time.Now(), report); err != nil {
		s.logger.Error("failed to export daily report", zap.Error(err))
	} else {
		s.logger.Info("daily report exported")
	}
}

func (s *Scheduler) refreshWeather() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	readings, err := s.weatherClient.FetchDailyReadings(ctx, 7)
	if err != nil {
		s.logger.Error("failed to refresh weather readings", zap.Error(err))
		return
	}

	s.monitoringSvc.Replace(readings)
}
