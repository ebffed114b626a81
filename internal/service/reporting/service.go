package reporting

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agrovista/agrovista/internal/domain/models"
)

const (
	dateLayout = "2006-01-02"

	// harvestWindow is the look-ahead used for the upcoming-harvests metric.
	harvestWindow = 30 * 24 * time.Hour
)

// CropLister provides the crop collection snapshot.
type CropLister interface {
	List() []models.Crop
}

// InventoryLister provides the inventory collection snapshot.
type InventoryLister interface {
	List() []models.InventoryItem
}

// ReadingProvider exposes the environmental feed.
type ReadingProvider interface {
	Latest() (models.MonitoringReading, bool)
}

// Service computes the dashboard and report read models. Everything here is
// derived on demand from the live collections; nothing is cached or
// persisted, and these values are never treated as source of truth.
type Service struct {
	crops     CropLister
	inventory InventoryLister
	readings  ReadingProvider
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a reporting service over the two collection screens and
// the monitoring feed.
func NewService(crops CropLister, inventory InventoryLister, readings ReadingProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		crops:     crops,
		inventory: inventory,
		readings:  readings,
		logger:    logger,
		now:       time.Now,
	}
}

// Dashboard assembles the metric cards and charts for the dashboard screen.
func (s *Service) Dashboard() models.DashboardSummary {
	crops := s.crops.List()
	items := s.inventory.List()

	summary := models.DashboardSummary{
		ActiveCrops:        ActiveCrops(crops),
		TotalCrops:         len(crops),
		TotalArea:          TotalArea(crops),
		EstimatedYield:     EstimatedYield(crops),
		LowStockCount:      LowStockCount(items),
		StatusDistribution: statusDistribution(crops),
		RecentCrops:        recentCrops(crops, 3),
	}

	if s.readings != nil {
		if latest, ok := s.readings.Latest(); ok {
			summary.LatestReading = &latest
		}
	}

	return summary
}

// Report assembles the production, inventory and planning report cards plus
// the executive summary text for the reports screen.
func (s *Service) Report() models.FarmReport {
	crops := s.crops.List()
	items := s.inventory.List()
	today := s.now()

	report := models.FarmReport{
		Production: models.ProductionReport{
			TotalCrops:      len(crops),
			TotalArea:       TotalArea(crops),
			EstimatedYield:  EstimatedYield(crops),
			YieldPerHectare: YieldPerHectare(crops),
		},
		Inventory: models.InventoryReport{
			TotalItems:        len(items),
			TotalValue:        TotalInventoryValue(items),
			LowStockCount:     LowStockCount(items),
			CategoryDiversity: CategoryDiversity(items),
		},
		Planning: models.PlanningReport{
			GrowingCrops:     countStatus(crops, models.CropGrowing),
			HarvestingCrops:  countStatus(crops, models.CropHarvesting),
			UpcomingHarvests: UpcomingHarvests(crops, today),
		},
	}
	report.Summary = s.executiveSummary(report)

	return report
}

// ActiveCrops counts crops in the growing or harvesting stage.
func ActiveCrops(crops []models.Crop) int {
	count := 0
	for _, c := range crops {
		if c.Status == models.CropGrowing || c.Status == models.CropHarvesting {
			count++
		}
	}
	return count
}

// TotalArea sums the planted area in hectares.
func TotalArea(crops []models.Crop) float64 {
	var total float64
	for _, c := range crops {
		total += c.Area
	}
	return total
}

// EstimatedYield sums the yield estimates, treating unset as zero.
func EstimatedYield(crops []models.Crop) float64 {
	var total float64
	for _, c := range crops {
		if c.YieldEstimate != nil {
			total += *c.YieldEstimate
		}
	}
	return total
}

// YieldPerHectare divides total estimated yield by total area. With zero area
// there is no defined ratio and nil is returned; NaN never leaves this
// function.
func YieldPerHectare(crops []models.Crop) *float64 {
	area := TotalArea(crops)
	if area == 0 {
		return nil
	}
	ratio := EstimatedYield(crops) / area
	return &ratio
}

// UpcomingHarvests counts crops whose expected harvest date falls within the
// next 30 days, today inclusive. Unparseable dates are skipped. The window is
// anchored to today's calendar date in its own location, so the count does
// not shift with the hour of day.
func UpcomingHarvests(crops []models.Crop, today time.Time) int {
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	count := 0
	for _, c := range crops {
		harvest, err := time.Parse(dateLayout, c.ExpectedHarvestDate)
		if err != nil {
			continue
		}
		until := harvest.Sub(day)
		if until >= 0 && until <= harvestWindow {
			count++
		}
	}
	return count
}

// LowStockCount counts items at or below their minimum stock.
func LowStockCount(items []models.InventoryItem) int {
	count := 0
	for _, item := range items {
		if item.IsLowStock() {
			count++
		}
	}
	return count
}

// TotalInventoryValue sums item costs, treating unset as zero.
func TotalInventoryValue(items []models.InventoryItem) float64 {
	var total float64
	for _, item := range items {
		if item.Cost != nil {
			total += *item.Cost
		}
	}
	return total
}

// CategoryDiversity counts the distinct categories present in the inventory.
func CategoryDiversity(items []models.InventoryItem) int {
	seen := make(map[models.Category]struct{}, len(items))
	for _, item := range items {
		seen[item.Category] = struct{}{}
	}
	return len(seen)
}

func countStatus(crops []models.Crop, status models.CropStatus) int {
	count := 0
	for _, c := range crops {
		if c.Status == status {
			count++
		}
	}
	return count
}

func statusDistribution(crops []models.Crop) []models.StatusCount {
	order := []models.CropStatus{
		models.CropGrowing,
		models.CropHarvesting,
		models.CropPlanted,
		models.CropCompleted,
	}

	distribution := make([]models.StatusCount, 0, len(order))
	for _, status := range order {
		distribution = append(distribution, models.StatusCount{
			Status: status,
			Label:  status.Label(),
			Count:  countStatus(crops, status),
		})
	}
	return distribution
}

func recentCrops(crops []models.Crop, n int) []models.Crop {
	if len(crops) < n {
		n = len(crops)
	}
	return append([]models.Crop(nil), crops[:n]...)
}

func (s *Service) executiveSummary(r models.FarmReport) string {
	var b strings.Builder

	perHa := "n/a"
	if r.Production.YieldPerHectare != nil {
		perHa = fmt.Sprintf("%.0f kg/ha", *r.Production.YieldPerHectare)
	}

	fmt.Fprintf(&b, "Producción: %d cultivos sobre %.1f ha, rendimiento esperado %.0f kg (%s).\n",
		r.Production.TotalCrops, r.Production.TotalArea, r.Production.EstimatedYield, perHa)
	fmt.Fprintf(&b, "Planificación: %d en crecimiento, %d en cosecha, %d cosechas en los próximos 30 días.\n",
		r.Planning.GrowingCrops, r.Planning.HarvestingCrops, r.Planning.UpcomingHarvests)
	fmt.Fprintf(&b, "Inventario: %d items en %d categorías, valor total $%.0f, %d alertas de stock bajo.",
		r.Inventory.TotalItems, r.Inventory.CategoryDiversity, r.Inventory.TotalValue, r.Inventory.LowStockCount)

	return b.String()
}
