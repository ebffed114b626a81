package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLowStockBoundary(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		minStock float64
		want     bool
	}{
		{"below minimum", 3, 5, true},
		{"at minimum", 5, 5, true},
		{"above minimum", 6, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := InventoryItem{Quantity: tt.quantity, MinStock: tt.minStock}
			assert.Equal(t, tt.want, item.IsLowStock())
		})
	}
}

func TestCategoryValidation(t *testing.T) {
	for _, c := range []Category{CategorySeeds, CategoryFertilizers, CategoryPesticides, CategoryTools, CategoryHarvest} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("machinery").Valid())
	assert.Equal(t, "Semillas", CategorySeeds.Label())
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "En Crecimiento", CropGrowing.Label())
	assert.Equal(t, "Excelente", HealthExcellent.Label())
	assert.False(t, CropStatus("flying").Valid())
	assert.False(t, HealthStatus("great").Valid())
}
