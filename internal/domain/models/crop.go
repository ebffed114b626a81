package models

// CropStatus enumerates the lifecycle stages a crop can be in. Stages are
// freely settable; there are no transition constraints.
type CropStatus string

const (
	CropPlanted    CropStatus = "planted"
	CropGrowing    CropStatus = "growing"
	CropHarvesting CropStatus = "harvesting"
	CropCompleted  CropStatus = "completed"
)

// HealthStatus enumerates crop health grades, independent of CropStatus.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthFair      HealthStatus = "fair"
	HealthPoor      HealthStatus = "poor"
)

// Crop represents one planted crop tracked by the planning screen.
// Dates are calendar dates stored as YYYY-MM-DD strings.
type Crop struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Variety             string       `json:"variety"`
	PlantingDate        string       `json:"plantingDate"`
	ExpectedHarvestDate string       `json:"expectedHarvestDate"`
	Area                float64      `json:"area"`
	Status              CropStatus   `json:"status"`
	HealthStatus        HealthStatus `json:"healthStatus"`
	YieldEstimate       *float64     `json:"yieldEstimate,omitempty"`
}

var cropStatusLabels = map[CropStatus]string{
	CropPlanted:    "Plantado",
	CropGrowing:    "En Crecimiento",
	CropHarvesting: "En Cosecha",
	CropCompleted:  "Completado",
}

var healthStatusLabels = map[HealthStatus]string{
	HealthExcellent: "Excelente",
	HealthGood:      "Bueno",
	HealthFair:      "Regular",
	HealthPoor:      "Pobre",
}

// Valid reports whether the value belongs to the closed status set.
func (s CropStatus) Valid() bool {
	_, ok := cropStatusLabels[s]
	return ok
}

// Label returns the display label shown on screen.
func (s CropStatus) Label() string {
	if label, ok := cropStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether the value belongs to the closed health set.
func (h HealthStatus) Valid() bool {
	_, ok := healthStatusLabels[h]
	return ok
}

// Label returns the display label shown on screen.
func (h HealthStatus) Label() string {
	if label, ok := healthStatusLabels[h]; ok {
		return label
	}
	return string(h)
}
