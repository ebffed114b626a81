package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	Weather   WeatherConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StoreConfig holds options for the local persistent store.
type StoreConfig struct {
	Path string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig configures the optional Google Sheets report export. Both
// fields must be set for the exporter to be enabled.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// WeatherConfig configures the optional external environmental feed. The
// feed is enabled when BaseURL is set.
type WeatherConfig struct {
	BaseURL     string
	Latitude    float64
	Longitude   float64
	RefreshCron string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			Path: getenvWithDefault("DATA_PATH", "data/agrovista.db"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Bogota"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
		Weather: WeatherConfig{
			BaseURL:     os.Getenv("WEATHER_API_BASE_URL"),
			RefreshCron: getenvWithDefault("WEATHER_REFRESH_CRON", "0 * * * *"),
		},
	}

	var err error
	if raw := os.Getenv("WEATHER_LATITUDE"); raw != "" {
		if cfg.Weather.Latitude, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("WEATHER_LATITUDE must be a number: %w", err)
		}
	}
	if raw := os.Getenv("WEATHER_LONGITUDE"); raw != "" {
		if cfg.Weather.Longitude, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("WEATHER_LONGITUDE must be a number: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and that
// optional feature groups are either complete or absent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Store.Path == "" {
		return errors.New("DATA_PATH must be provided")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_EXPORT_ID must be set together")
	}

	if c.Weather.BaseURL != "" && c.Weather.RefreshCron == "" {
		return errors.New("WEATHER_REFRESH_CRON must be provided when the weather feed is enabled")
	}

	return nil
}

// SheetsEnabled reports whether the report export feature is configured.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

// WeatherEnabled reports whether the external environmental feed is configured.
func (c *Config) WeatherEnabled() bool {
	return c.Weather.BaseURL != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
