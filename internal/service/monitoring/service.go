package monitoring

import (
	"sync"

	"go.uber.org/zap"

	"github.com/agrovista/agrovista/internal/domain/models"
)

// Service holds the read-only environmental series. The data is an external
// feed: it starts from the injected seed, can be replaced wholesale by the
// weather refresh job, and is never written to the local store.
type Service struct {
	logger *zap.Logger

	mu       sync.RWMutex
	readings []models.MonitoringReading
}

// NewService wires the monitoring feed with its initial series.
func NewService(seed []models.MonitoringReading, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:   logger,
		readings: append([]models.MonitoringReading(nil), seed...),
	}
}

// Series returns a snapshot of the full series in feed order.
func (s *Service) Series() []models.MonitoringReading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MonitoringReading(nil), s.readings...)
}

// Latest returns the most recent reading, if any.
func (s *Service) Latest() (models.MonitoringReading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.readings) == 0 {
		return models.MonitoringReading{}, false
	}
	return s.readings[len(s.readings)-1], true
}

// Replace swaps in a fresh series fetched from the external feed. An empty
// series is ignored so a failed fetch never blanks the screen.
func (s *Service) Replace(readings []models.MonitoringReading) {
	if len(readings) == 0 {
		return
	}

	s.mu.Lock()
	s.readings = append([]models.MonitoringReading(nil), readings...)
	s.mu.Unlock()

	s.logger.Info("monitoring series refreshed", zap.Int("readings", len(readings)))
}
