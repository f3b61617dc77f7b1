package telemetry

import (
	"context"
	"sync"

	"fleetwatch/internal/models"
)

// ServiceInterface defines the telemetry module's contract towards the
// handler and the poll loops.
type ServiceInterface interface {
	RefreshFleet(ctx context.Context)
	RefreshAlerts(ctx context.Context)
	Fleet() []models.FleetVehicle
	Alerts() []models.Alert
	AlertCounts() map[string]int
}

// Service caches the most recent fleet and alert snapshots. Each refresh
// replaces the previous snapshot wholesale; readers always see a complete,
// self-contained result set from a single poll cycle.
type Service struct {
	gateway GatewayInterface

	mu     sync.RWMutex
	fleet  []models.FleetVehicle
	alerts []models.Alert
}

// NewService creates the telemetry service over a gateway.
func NewService(gateway GatewayInterface) *Service {
	return &Service{gateway: gateway}
}

// RefreshFleet runs one fleet poll cycle.
func (s *Service) RefreshFleet(ctx context.Context) {
	fleet := s.gateway.FetchFleetSnapshot(ctx)
	s.mu.Lock()
	s.fleet = fleet
	s.mu.Unlock()
}

// RefreshAlerts runs one alert poll cycle.
func (s *Service) RefreshAlerts(ctx context.Context) {
	alerts := s.gateway.FetchAlertFeed(ctx)
	s.mu.Lock()
	s.alerts = alerts
	s.mu.Unlock()
}

// Fleet returns the latest fleet snapshot, fetching synchronously if no
// poll cycle has completed yet.
func (s *Service) Fleet() []models.FleetVehicle {
	s.mu.RLock()
	fleet := s.fleet
	s.mu.RUnlock()
	if fleet == nil {
		s.RefreshFleet(context.Background())
		s.mu.RLock()
		fleet = s.fleet
		s.mu.RUnlock()
	}
	return fleet
}

// Alerts returns the latest alert feed, fetching synchronously if no poll
// cycle has completed yet.
func (s *Service) Alerts() []models.Alert {
	s.mu.RLock()
	alerts := s.alerts
	s.mu.RUnlock()
	if alerts == nil {
		s.RefreshAlerts(context.Background())
		s.mu.RLock()
		alerts = s.alerts
		s.mu.RUnlock()
	}
	return alerts
}

// AlertCounts tallies the current feed by severity level for the badge
// endpoints.
func (s *Service) AlertCounts() map[string]int {
	counts := map[string]int{
		models.RiskLevelLow:      0,
		models.RiskLevelMedium:   0,
		models.RiskLevelHigh:     0,
		models.RiskLevelCritical: 0,
	}
	for _, a := range s.Alerts() {
		counts[a.Level]++
	}
	return counts
}
