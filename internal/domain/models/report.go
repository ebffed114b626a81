package models

// DashboardSummary aggregates the metric cards shown on the dashboard.
// Derived on every request from the live collections; never persisted.
type DashboardSummary struct {
	ActiveCrops        int                `json:"active_crops"`
	TotalCrops         int                `json:"total_crops"`
	TotalArea          float64            `json:"total_area"`
	EstimatedYield     float64            `json:"estimated_yield"`
	LowStockCount      int                `json:"low_stock_count"`
	StatusDistribution []StatusCount      `json:"status_distribution"`
	RecentCrops        []Crop             `json:"recent_crops"`
	LatestReading      *MonitoringReading `json:"latest_reading,omitempty"`
}

// StatusCount is one bar of the crop status distribution chart.
type StatusCount struct {
	Status CropStatus `json:"status"`
	Label  string     `json:"label"`
	Count  int        `json:"count"`
}

// ProductionReport summarizes crops and expected yields. YieldPerHectare is
// nil when no area is registered; it is reported as "n/a", never NaN.
type ProductionReport struct {
	TotalCrops      int      `json:"total_crops"`
	TotalArea       float64  `json:"total_area"`
	EstimatedYield  float64  `json:"estimated_yield"`
	YieldPerHectare *float64 `json:"yield_per_hectare,omitempty"`
}

// InventoryReport summarizes the current state of products and supplies.
type InventoryReport struct {
	TotalItems        int     `json:"total_items"`
	TotalValue        float64 `json:"total_value"`
	LowStockCount     int     `json:"low_stock_count"`
	CategoryDiversity int     `json:"category_diversity"`
}

// PlanningReport summarizes the planting and harvest calendar.
type PlanningReport struct {
	GrowingCrops     int `json:"growing_crops"`
	HarvestingCrops  int `json:"harvesting_crops"`
	UpcomingHarvests int `json:"upcoming_harvests"`
}

// FarmReport bundles the three report cards plus the executive summary text.
type FarmReport struct {
	Production ProductionReport `json:"production"`
	Inventory  InventoryReport  `json:"inventory"`
	Planning   PlanningReport   `json:"planning"`
	Summary    string           `json:"summary"`
}
