package models

// TelemetryFrame is one telemetry sample pushed to the digital-twin agent.
type TelemetryFrame struct {
	TripID    string  `json:"trip_id" validate:"required"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	SpeedKmh  float64 `json:"speed_kmh"`
	FuelPct   float64 `json:"fuel_pct"`
	Timestamp int64   `json:"timestamp"`
}

// RouteCheckRequest asks the route agent to vet a corridor before dispatch.
type RouteCheckRequest struct {
	Route     string `json:"route" validate:"required"`
	CargoType string `json:"cargo_type"`
}

// RouteCheckResult is the route agent's verdict.
type RouteCheckResult struct {
	Route      string   `json:"route"`
	Verdict    string   `json:"verdict"`
	Score      int      `json:"score"`
	Advisories []string `json:"advisories"`
}

// BehaviourRequest submits recent driving samples for anomaly analysis.
type BehaviourRequest struct {
	TripID  string           `json:"trip_id" validate:"required"`
	Samples []TelemetryFrame `json:"samples"`
}

// BehaviourReport is the behaviour agent's assessment of a trip.
type BehaviourReport struct {
	TripID  string `json:"trip_id"`
	Anomaly bool   `json:"anomaly"`
	Score   int    `json:"score"`
	Summary string `json:"summary"`
}

// AlertExplanation is the explain agent's narrative for a single alert.
type AlertExplanation struct {
	AlertID     string  `json:"alert_id"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"`
}

// SimulationRequest triggers a named demo scenario on the upstream simulator.
type SimulationRequest struct {
	Scenario string `json:"scenario" validate:"required"`
}
