package risk

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"

	"fleetwatch/internal/models"
)

// Fusion weights applied to the five sub-scores. Must sum to exactly 1.00;
// the breakdown entries expose them as percentages summing to 100.
const (
	weightRoute  = 0.30
	weightCargo  = 0.25
	weightTime   = 0.20
	weightValue  = 0.15
	weightDriver = 0.10
)

// Sub-score trigger thresholds for the reason list. Risk-factor checks are
// strict greater-than; only the level breakpoints use >=.
const (
	reasonCargoAbove  = 60
	reasonRouteAbove  = 50
	reasonValueAbove  = 60
	reasonDriverAbove = 50
	reassureBelow     = 35
)

// Display timezone for generated timestamps. A fixed zone keeps reports
// identical across hosts regardless of local tzdata.
var displayZone = time.FixedZone("IST", 5*3600+1800)

const displayTimeLayout = "02 Jan 2006, 03:04 PM"

// ServiceInterface defines the risk module's contract towards the handler.
type ServiceInterface interface {
	ComputeRiskReport(req models.RiskRequest) models.RiskReport
}

// Service fuses independent trip risk signals into one composite report.
// It is pure apart from the report ID and timestamp: no I/O, no stored state.
type Service struct {
	routes []models.RouteProfile
	cargos []models.CargoProfile
	clock  clockz.Clock
}

// NewService creates a risk calculator over the given reference tables.
// The tables must be non-empty; their first rows serve as the fallback for
// unknown route labels and cargo ids.
func NewService(routes []models.RouteProfile, cargos []models.CargoProfile, clock clockz.Clock) *Service {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Service{routes: routes, cargos: cargos, clock: clock}
}

// ComputeRiskReport maps a trip descriptor to a risk score, level, breakdown
// and explanation. Total: unknown route or cargo keys fall back to the first
// reference row instead of failing.
func (s *Service) ComputeRiskReport(req models.RiskRequest) models.RiskReport {
	route := s.lookupRoute(req.Route)
	cargo := s.lookupCargo(req.CargoType)

	routeRisk := int(math.Round(route.RiskFactor * 100))
	cargoRisk := int(math.Round(cargo.RiskFactor * 100))
	timeRisk := 25
	if req.TravelTime == models.TravelNight {
		timeRisk = 80
	}
	valueRisk := valueRiskFor(req.CargoValue)
	driverRisk := driverRiskFor(req.DriverExperienceYrs)

	score := int(math.Round(float64(routeRisk)*weightRoute +
		float64(cargoRisk)*weightCargo +
		float64(timeRisk)*weightTime +
		float64(valueRisk)*weightValue +
		float64(driverRisk)*weightDriver))
	level := models.RiskLevelForScore(score)

	breakdown := []models.BreakdownEntry{
		{Name: "Route Risk", Score: routeRisk, Weight: int(weightRoute * 100)},
		{Name: "Cargo Risk", Score: cargoRisk, Weight: int(weightCargo * 100)},
		{Name: "Time Risk", Score: timeRisk, Weight: int(weightTime * 100)},
		{Name: "Value Risk", Score: valueRisk, Weight: int(weightValue * 100)},
		{Name: "Driver Risk", Score: driverRisk, Weight: int(weightDriver * 100)},
	}

	// Reason checks run in a fixed order; each fires at most once, so the
	// list is duplicate-free by construction.
	var reasons []string
	if req.TravelTime == models.TravelNight {
		reasons = append(reasons, "Night travel raises hijacking risk on unlit highway stretches")
	}
	if cargoRisk > reasonCargoAbove {
		reasons = append(reasons, fmt.Sprintf("%s consignments are a frequent target for organised theft", cargo.Label))
	}
	if routeRisk > reasonRouteAbove {
		reasons = append(reasons, "Route history shows a high incident rate on this corridor")
	}
	if valueRisk > reasonValueAbove {
		reasons = append(reasons, "Declared cargo value makes this trip attractive to organised gangs")
	}
	if driverRisk > reasonDriverAbove {
		reasons = append(reasons, "Limited driver experience for a high-risk corridor")
	}
	if len(route.DangerZones) > 0 {
		reasons = append(reasons, "Passes through known danger zones: "+strings.Join(route.DangerZones, ", "))
	}
	if score < reassureBelow {
		reasons = append(reasons, "Standard precautions are sufficient for this trip")
	}

	return models.RiskReport{
		ID:          uuid.NewString(),
		Route:       route.Label,
		CargoType:   cargo.ID,
		Score:       score,
		Level:       level,
		Breakdown:   breakdown,
		Reasons:     reasons,
		DangerZones: route.DangerZones,
		Path:        route.Path,
		Markers:     route.Markers,
		DistanceKm:  route.DistanceKm,
		GeneratedAt: s.clock.Now().In(displayZone).Format(displayTimeLayout),
	}
}

// lookupRoute resolves a route label by exact match. A miss falls back to
// the first table row; that is the documented default, not an error.
func (s *Service) lookupRoute(label string) models.RouteProfile {
	for _, r := range s.routes {
		if r.Label == label {
			return r
		}
	}
	return s.routes[0]
}

func (s *Service) lookupCargo(id string) models.CargoProfile {
	for _, c := range s.cargos {
		if c.ID == id {
			return c
		}
	}
	return s.cargos[0]
}

// valueRiskFor buckets the declared value at fixed breakpoints. The unit is
// an abstract monetary value, not tied to a currency code.
func valueRiskFor(value float64) int {
	switch {
	case value > 2_000_000:
		return 90
	case value > 1_000_000:
		return 65
	case value > 500_000:
		return 45
	default:
		return 25
	}
}

// driverRiskFor decays linearly with experience and floors at 10. Zero years
// yields the full 100; nothing clamps the top end.
func driverRiskFor(years float64) int {
	r := int(math.Round(100 - years*8))
	if r < 10 {
		r = 10
	}
	return r
}
