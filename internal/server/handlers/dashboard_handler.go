package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrovista/agrovista/internal/service/monitoring"
	"github.com/agrovista/agrovista/internal/service/reporting"
)

// DashboardHandler serves the dashboard and monitoring read models.
type DashboardHandler struct {
	reporting  *reporting.Service
	monitoring *monitoring.Service
	logger     *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(reportingSvc *reporting.Service, monitoringSvc *monitoring.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{reporting: reportingSvc, monitoring: monitoringSvc, logger: logger}
}

// Dashboard returns the metric cards, status distribution and recent crops.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.reporting.Dashboard())
}

// Monitoring returns the environmental series and the latest reading.
func (h *DashboardHandler) Monitoring(c *gin.Context) {
	payload := gin.H{"readings": h.monitoring.Series()}
	if latest, ok := h.monitoring.Latest(); ok {
		payload["latest"] = latest
	}
	c.JSON(http.StatusOK, payload)
}
