package models

// MonitoringReading captures one day of environmental measurements. Readings
// come from an external feed (or seed data) and are never persisted locally.
type MonitoringReading struct {
	Date         string  `json:"date"`
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	Rainfall     float64 `json:"rainfall"`
	SoilMoisture float64 `json:"soilMoisture"`
}
