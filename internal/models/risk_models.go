package models

// Risk levels shared by risk reports, fleet snapshots and the alert feed.
const (
	RiskLevelLow      = "Low"
	RiskLevelMedium   = "Medium"
	RiskLevelHigh     = "High"
	RiskLevelCritical = "Critical"
)

// Travel-time options accepted by the risk calculator.
const (
	TravelDay   = "Day"
	TravelNight = "Night"
)

// RiskLevelForScore maps a composite score onto the four-level taxonomy.
// Breakpoints are inclusive: 75 is already Critical, 55 already High.
func RiskLevelForScore(score int) string {
	switch {
	case score >= 75:
		return RiskLevelCritical
	case score >= 55:
		return RiskLevelHigh
	case score >= 35:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DangerMarker is a named map marker for a flagged spot along a route.
type DangerMarker struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name"`
}

// RouteProfile is a static reference row describing one monitored corridor.
// Profiles are loaded once at process start and never mutated.
type RouteProfile struct {
	Label       string         `json:"label"`
	RiskFactor  float64        `json:"risk_factor"` // in [0,1]
	DistanceKm  float64        `json:"distance_km"`
	DangerZones []string       `json:"danger_zones"`
	Path        []LatLng       `json:"path"`
	Markers     []DangerMarker `json:"markers"`
}

// CargoProfile is a static reference row for one cargo category.
type CargoProfile struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	RiskFactor float64 `json:"risk_factor"` // in [0,1]
}

// RiskRequest is the trip descriptor submitted from the dashboard's
// risk-assessment form.
type RiskRequest struct {
	Route               string  `json:"route" validate:"required"`
	CargoType           string  `json:"cargo_type" validate:"required"`
	TravelTime          string  `json:"travel_time" validate:"required,oneof=Day Night"`
	CargoValue          float64 `json:"cargo_value" validate:"gte=0"`
	DistanceKm          float64 `json:"distance_km" validate:"gte=0"`
	DriverExperienceYrs float64 `json:"driver_experience_yrs" validate:"gte=0"`
}

// BreakdownEntry is one named sub-score with its fusion weight.
// Weights are percentages and sum to 100 across a report's breakdown.
type BreakdownEntry struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Weight int    `json:"weight"`
}

// RiskReport is the derived, per-request risk assessment. The invariant
// Score == round(sum(entry.Score*entry.Weight)/100) holds for every report.
type RiskReport struct {
	ID          string           `json:"id"`
	Route       string           `json:"route"`
	CargoType   string           `json:"cargo_type"`
	Score       int              `json:"score"`
	Level       string           `json:"level"`
	Breakdown   []BreakdownEntry `json:"breakdown"`
	Reasons     []string         `json:"reasons"`
	DangerZones []string         `json:"danger_zones"`
	Path        []LatLng         `json:"path"`
	Markers     []DangerMarker   `json:"markers"`
	DistanceKm  float64          `json:"distance_km"`
	GeneratedAt string           `json:"generated_at"`
}
