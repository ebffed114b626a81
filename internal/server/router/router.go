package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrovista/agrovista/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(cropsHandler *handlers.CropsHandler, inventoryHandler *handlers.InventoryHandler, dashboardHandler *handlers.DashboardHandler, reportsHandler *handlers.ReportsHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.GET("/dashboard", dashboardHandler.Dashboard)
	api.GET("/monitoring", dashboardHandler.Monitoring)

	api.GET("/crops", cropsHandler.List)
	api.GET("/crops/form", cropsHandler.Form)
	api.POST("/crops/form", cropsHandler.OpenCreate)
	api.POST("/crops/form/save", cropsHandler.Save)
	api.POST("/crops/form/:id", cropsHandler.OpenEdit)
	api.PATCH("/crops/form", cropsHandler.SetFields)
	api.DELETE("/crops/form", cropsHandler.Cancel)

	api.GET("/inventory", inventoryHandler.List)
	api.GET("/inventory/form", inventoryHandler.Form)
	api.POST("/inventory/form", inventoryHandler.OpenCreate)
	api.POST("/inventory/form/save", inventoryHandler.Save)
	api.POST("/inventory/form/:id", inventoryHandler.OpenEdit)
	api.PATCH("/inventory/form", inventoryHandler.SetFields)
	api.DELETE("/inventory/form", inventoryHandler.Cancel)

	api.GET("/reports", reportsHandler.Report)
	api.GET("/reports/export.csv", reportsHandler.ExportCSV)
	api.POST("/reports/export", reportsHandler.Export)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
