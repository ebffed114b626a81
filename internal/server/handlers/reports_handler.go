package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrovista/agrovista/internal/repository/sheets"
	"github.com/agrovista/agrovista/internal/service/reporting"
)

// ReportsHandler serves the report cards and the export actions. The sheet
// exporter is optional; export requests return 503 when it is not configured.
type ReportsHandler struct {
	reporting *reporting.Service
	exporter  sheets.Exporter
	logger    *zap.Logger
}

// NewReportsHandler constructs the HTTP handler adapter.
func NewReportsHandler(reportingSvc *reporting.Service, exporter sheets.Exporter, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{reporting: reportingSvc, exporter: exporter, logger: logger}
}

// Report returns the production, inventory and planning report cards.
func (h *ReportsHandler) Report(c *gin.Context) {
	c.JSON(http.StatusOK, h.reporting.Report())
}

// ExportCSV streams the current report as a CSV download.
func (h *ReportsHandler) ExportCSV(c *gin.Context) {
	report := h.reporting.Report()

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="farm-report.csv"`)

	w := csv.NewWriter(c.Writer)
	rows := [][]string{
		{"section", "metric", "value"},
		{"production", "total_crops", fmt.Sprint(report.Production.TotalCrops)},
		{"production", "total_area_ha", fmt.Sprintf("%.1f", report.Production.TotalArea)},
		{"production", "estimated_yield_kg", fmt.Sprintf("%.0f", report.Production.EstimatedYield)},
		{"production", "yield_per_hectare", formatPerHectare(report.Production.YieldPerHectare)},
		{"planning", "growing_crops", fmt.Sprint(report.Planning.GrowingCrops)},
		{"planning", "harvesting_crops", fmt.Sprint(report.Planning.HarvestingCrops)},
		{"planning", "upcoming_harvests_30d", fmt.Sprint(report.Planning.UpcomingHarvests)},
		{"inventory", "total_items", fmt.Sprint(report.Inventory.TotalItems)},
		{"inventory", "total_value", fmt.Sprintf("%.0f", report.Inventory.TotalValue)},
		{"inventory", "low_stock_items", fmt.Sprint(report.Inventory.LowStockCount)},
		{"inventory", "category_diversity", fmt.Sprint(report.Inventory.CategoryDiversity)},
	}

	if err := w.WriteAll(rows); err != nil {
		h.logger.Error("failed writing report csv", zap.Error(err))
	}
}

// Export appends the current report to the configured spreadsheet.
func (h *ReportsHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report export is not configured"})
		return
	}

	report := h.reporting.Report()
	if err := h.exporter.AppendReport(c.Request.Context(), time.Now(), report); err != nil {
		h.logger.Error("failed exporting report", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to export report"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "exported"})
}

func formatPerHectare(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f", *v)
}
