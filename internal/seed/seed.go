// Package seed supplies the default collections used to initialize a screen
// when nothing has been persisted yet. Each function returns a fresh slice so
// callers never share mutable state.
package seed

import "github.com/agrovista/agrovista/internal/domain/models"

func ptr(v float64) *float64 { return &v }

// Crops returns the default crop collection for first run.
func Crops() []models.Crop {
	return []models.Crop{
		{
			ID:                  "crop-1718000000001",
			Name:                "Papa Criolla",
			Variety:             "Parda Pastusa",
			PlantingDate:        "2026-03-15",
			ExpectedHarvestDate: "2026-09-10",
			Area:                2.5,
			Status:              models.CropGrowing,
			HealthStatus:        models.HealthGood,
			YieldEstimate:       ptr(4500),
		},
		{
			ID:                  "crop-1718000000002",
			Name:                "Maíz",
			Variety:             "Amarillo Duro",
			PlantingDate:        "2026-04-01",
			ExpectedHarvestDate: "2026-09-20",
			Area:                3.0,
			Status:              models.CropHarvesting,
			HealthStatus:        models.HealthExcellent,
			YieldEstimate:       ptr(6200),
		},
		{
			ID:                  "crop-1718000000003",
			Name:                "Frijol",
			Variety:             "Cargamanto",
			PlantingDate:        "2026-05-20",
			ExpectedHarvestDate: "2026-10-30",
			Area:                1.2,
			Status:              models.CropPlanted,
			HealthStatus:        models.HealthFair,
		},
		{
			ID:                  "crop-1718000000004",
			Name:                "Tomate",
			Variety:             "Chonto",
			PlantingDate:        "2026-01-10",
			ExpectedHarvestDate: "2026-05-15",
			Area:                0.8,
			Status:              models.CropCompleted,
			HealthStatus:        models.HealthGood,
			YieldEstimate:       ptr(3100),
		},
	}
}

// Inventory returns the default inventory collection for first run.
func Inventory() []models.InventoryItem {
	return []models.InventoryItem{
		{
			ID:          "item-1718000000001",
			Name:        "Semillas de Papa",
			Category:    models.CategorySeeds,
			Quantity:    120,
			Unit:        "kg",
			MinStock:    50,
			LastUpdated: "2026-08-20",
			Supplier:    "Semillas del Valle",
			Cost:        ptr(960000),
		},
		{
			ID:          "item-1718000000002",
			Name:        "Urea",
			Category:    models.CategoryFertilizers,
			Quantity:    10,
			Unit:        "bultos",
			MinStock:    15,
			LastUpdated: "2026-08-18",
			Supplier:    "AgroSur",
			Cost:        ptr(1250000),
		},
		{
			ID:          "item-1718000000003",
			Name:        "Fungicida Cúprico",
			Category:    models.CategoryPesticides,
			Quantity:    8,
			Unit:        "L",
			MinStock:    5,
			LastUpdated: "2026-08-25",
			Supplier:    "Campo Limpio",
			Cost:        ptr(420000),
		},
		{
			ID:          "item-1718000000004",
			Name:        "Azadones",
			Category:    models.CategoryTools,
			Quantity:    6,
			Unit:        "unidades",
			MinStock:    4,
			LastUpdated: "2026-07-30",
		},
		{
			ID:          "item-1718000000005",
			Name:        "Papa Cosechada",
			Category:    models.CategoryHarvest,
			Quantity:    800,
			Unit:        "kg",
			MinStock:    0,
			LastUpdated: "2026-08-28",
			Cost:        ptr(2400000),
		},
	}
}

// Monitoring returns the default seven-day environmental series.
func Monitoring() []models.MonitoringReading {
	return []models.MonitoringReading{
		{Date: "2026-08-25", Temperature: 18.5, Humidity: 72, Rainfall: 4.2, SoilMoisture: 61},
		{Date: "2026-08-26", Temperature: 19.1, Humidity: 70, Rainfall: 0, SoilMoisture: 58},
		{Date: "2026-08-27", Temperature: 17.8, Humidity: 78, Rainfall: 12.6, SoilMoisture: 67},
		{Date: "2026-08-28", Temperature: 16.9, Humidity: 81, Rainfall: 8.3, SoilMoisture: 70},
		{Date: "2026-08-29", Temperature: 18.2, Humidity: 74, Rainfall: 1.1, SoilMoisture: 65},
		{Date: "2026-08-30", Temperature: 19.6, Humidity: 69, Rainfall: 0, SoilMoisture: 60},
		{Date: "2026-08-31", Temperature: 20.3, Humidity: 66, Rainfall: 0, SoilMoisture: 56},
	}
}
