package models

// Vehicle status vocabulary used in fleet snapshots.
const (
	StatusInTransit = "In Transit"
	StatusAlert     = "Alert"
)

// TruckInfo describes the truck and consignment behind one tracked trip.
type TruckInfo struct {
	PlateNumber string  `json:"plate_number"`
	CargoType   string  `json:"cargo_type"`
	CargoValue  float64 `json:"cargo_value"`
	Route       string  `json:"route"`
}

// RiskInfo is the current risk snapshot attached to a fleet vehicle.
type RiskInfo struct {
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Reasons []string `json:"reasons"`
}

// FleetVehicle is one tracked trip at a point in time. Snapshots are
// rebuilt wholesale on every poll cycle; the trip ID is the only identity
// carried between cycles.
type FleetVehicle struct {
	TripID   string    `json:"trip_id"`
	Truck    TruckInfo `json:"truck"`
	Risk     RiskInfo  `json:"risk"`
	Location LatLng    `json:"location"`
	Status   string    `json:"status"`
}

// Alert is one entry of the theft-alert feed. Same wholesale-replacement
// lifecycle as FleetVehicle.
type Alert struct {
	ID          string `json:"id"`
	TruckID     string `json:"truck_id"`
	Time        string `json:"time"` // rendered display time, e.g. "10:42 PM"
	Level       string `json:"level"`
	Message     string `json:"message"`
	Explanation string `json:"ai_explanation,omitempty"`
	RiskScore   *int   `json:"risk_score,omitempty"`
	Category    string `json:"category,omitempty"`
}
