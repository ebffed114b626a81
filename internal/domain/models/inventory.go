package models

// Category enumerates the inventory item categories.
type Category string

const (
	CategorySeeds       Category = "seeds"
	CategoryFertilizers Category = "fertilizers"
	CategoryPesticides  Category = "pesticides"
	CategoryTools       Category = "tools"
	CategoryHarvest     Category = "harvest"
)

var categoryLabels = map[Category]string{
	CategorySeeds:       "Semillas",
	CategoryFertilizers: "Fertilizantes",
	CategoryPesticides:  "Pesticidas",
	CategoryTools:       "Herramientas",
	CategoryHarvest:     "Cosecha",
}

// Valid reports whether the value belongs to the closed category set.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label shown on screen. The label takes part in
// inventory search alongside the raw key.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// InventoryItem represents one product or supply tracked by the inventory
// screen. LastUpdated is a YYYY-MM-DD string stamped on every save.
type InventoryItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	MinStock    float64  `json:"minStock"`
	LastUpdated string   `json:"lastUpdated"`
	Supplier    string   `json:"supplier,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
}

// IsLowStock reports whether on-hand quantity is at or below the configured
// minimum. The boundary is inclusive: quantity == minStock is low.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinStock
}
