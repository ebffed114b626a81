package weather

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/agrovista/agrovista/internal/config"
	"github.com/agrovista/agrovista/internal/domain/models"
)

// Client exposes the external environmental feed used by the monitoring screen.
type Client interface {
	FetchDailyReadings(ctx context.Context, days int) ([]models.MonitoringReading, error)
}

// APIClient is a resty-backed implementation of Client against an
// Open-Meteo compatible forecast endpoint.
type APIClient struct {
	httpClient *resty.Client
	latitude   float64
	longitude  float64
}

// NewClient builds a weather API client using the provided configuration values.
func NewClient(cfg config.WeatherConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		latitude:   cfg.Latitude,
		longitude:  cfg.Longitude,
	}
}

// dailyResponse mirrors the daily block of the forecast payload.
type dailyResponse struct {
	Daily struct {
		Time         []string  `json:"time"`
		Temperature  []float64 `json:"temperature_2m_mean"`
		Humidity     []float64 `json:"relative_humidity_2m_mean"`
		Rainfall     []float64 `json:"precipitation_sum"`
		SoilMoisture []float64 `json:"soil_moisture_0_to_10cm_mean"`
	} `json:"daily"`
}

// apiError represents the error payload returned by the feed.
type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// FetchDailyReadings retrieves the trailing daily series for the configured
// coordinates.
func (c *APIClient) FetchDailyReadings(ctx context.Context, days int) ([]models.MonitoringReading, error) {
	if days <= 0 {
		days = 7
	}

	result := new(dailyResponse)
	feedErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  fmt.Sprintf("%f", c.latitude),
			"longitude": fmt.Sprintf("%f", c.longitude),
			"past_days": fmt.Sprintf("%d", days),
			"daily":     "temperature_2m_mean,relative_humidity_2m_mean,precipitation_sum,soil_moisture_0_to_10cm_mean",
			"timezone":  "auto",
		}).
		SetResult(result).
		SetError(feedErr).
		Get("/v1/forecast")
	if err != nil {
		return nil, fmt.Errorf("fetch weather readings: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("weather api error: code=%d, reason=%s", resp.StatusCode(), feedErr.Reason)
	}

	readings := make([]models.MonitoringReading, 0, len(result.Daily.Time))
	for i, date := range result.Daily.Time {
		reading := models.MonitoringReading{Date: date}
		if i < len(result.Daily.Temperature) {
			reading.Temperature = result.Daily.Temperature[i]
		}
		if i < len(result.Daily.Humidity) {
			reading.Humidity = result.Daily.Humidity[i]
		}
		if i < len(result.Daily.Rainfall) {
			reading.Rainfall = result.Daily.Rainfall[i]
		}
		if i < len(result.Daily.SoilMoisture) {
			reading.SoilMoisture = result.Daily.SoilMoisture[i]
		}
		readings = append(readings, reading)
	}

	return readings, nil
}
