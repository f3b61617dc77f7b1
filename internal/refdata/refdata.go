// Package refdata holds the immutable reference tables and the hand-authored
// seed dataset the dashboard falls back to when the upstream fleet API is
// unreachable. Everything here is loaded once and never mutated.
package refdata

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"fleetwatch/internal/models"
)

// Routes is the corridor reference table. The first entry doubles as the
// fallback row when a submitted route label has no exact match.
var Routes = []models.RouteProfile{
	{
		Label:       "Chennai → Mumbai",
		RiskFactor:  0.55,
		DistanceKm:  1338,
		DangerZones: []string{"Krishnagiri Ghat", "Solapur Bypass"},
		Path: []models.LatLng{
			{Lat: 13.0827, Lng: 80.2707},
			{Lat: 12.5186, Lng: 78.2137},
			{Lat: 17.6599, Lng: 75.9064},
			{Lat: 18.5204, Lng: 73.8567},
			{Lat: 19.0760, Lng: 72.8777},
		},
		Markers: []models.DangerMarker{
			{Lat: 12.5186, Lng: 78.2137, Name: "Krishnagiri Ghat"},
			{Lat: 17.6599, Lng: 75.9064, Name: "Solapur Bypass"},
		},
	},
	{
		Label:       "Delhi → Jaipur",
		RiskFactor:  0.25,
		DistanceKm:  270,
		DangerZones: []string{"Behror Stretch"},
		Path: []models.LatLng{
			{Lat: 28.6139, Lng: 77.2090},
			{Lat: 28.4595, Lng: 77.0266},
			{Lat: 27.8882, Lng: 76.2809},
			{Lat: 26.9124, Lng: 75.7873},
		},
		Markers: []models.DangerMarker{
			{Lat: 27.8882, Lng: 76.2809, Name: "Behror Stretch"},
		},
	},
	{
		Label:       "Mumbai → Delhi",
		RiskFactor:  0.62,
		DistanceKm:  1420,
		DangerZones: []string{"Vadodara Outskirts", "Kotputli Corridor"},
		Path: []models.LatLng{
			{Lat: 19.0760, Lng: 72.8777},
			{Lat: 21.1702, Lng: 72.8311},
			{Lat: 22.3072, Lng: 73.1812},
			{Lat: 24.5854, Lng: 73.7125},
			{Lat: 27.7021, Lng: 76.1993},
			{Lat: 28.6139, Lng: 77.2090},
		},
		Markers: []models.DangerMarker{
			{Lat: 22.3072, Lng: 73.1812, Name: "Vadodara Outskirts"},
			{Lat: 27.7021, Lng: 76.1993, Name: "Kotputli Corridor"},
		},
	},
	{
		Label:       "Kolkata → Patna",
		RiskFactor:  0.70,
		DistanceKm:  580,
		DangerZones: []string{"Barhi Junction", "Aurangabad Stretch"},
		Path: []models.LatLng{
			{Lat: 22.5726, Lng: 88.3639},
			{Lat: 23.6889, Lng: 86.9661},
			{Lat: 24.3051, Lng: 85.4185},
			{Lat: 24.7520, Lng: 84.3742},
			{Lat: 25.5941, Lng: 85.1376},
		},
		Markers: []models.DangerMarker{
			{Lat: 24.3051, Lng: 85.4185, Name: "Barhi Junction"},
			{Lat: 24.7520, Lng: 84.3742, Name: "Aurangabad Stretch"},
		},
	},
	{
		Label:       "Bengaluru → Hyderabad",
		RiskFactor:  0.35,
		DistanceKm:  570,
		DangerZones: []string{"Anantapur Bypass"},
		Path: []models.LatLng{
			{Lat: 12.9716, Lng: 77.5946},
			{Lat: 14.6819, Lng: 77.6006},
			{Lat: 15.8281, Lng: 78.0373},
			{Lat: 17.3850, Lng: 78.4867},
		},
		Markers: []models.DangerMarker{
			{Lat: 14.6819, Lng: 77.6006, Name: "Anantapur Bypass"},
		},
	},
}

// Cargos is the cargo-category reference table. First entry is the fallback.
var Cargos = []models.CargoProfile{
	{ID: "Electronics", Label: "Electronics", RiskFactor: 0.75},
	{ID: "Pharmaceuticals", Label: "Pharmaceuticals", RiskFactor: 0.80},
	{ID: "FMCG", Label: "FMCG", RiskFactor: 0.40},
	{ID: "Textiles", Label: "Textiles", RiskFactor: 0.30},
	{ID: "Automotive Parts", Label: "Automotive Parts", RiskFactor: 0.55},
	{ID: "Fuel & Petrochemicals", Label: "Fuel & Petrochemicals", RiskFactor: 0.85},
	{ID: "Agricultural Produce", Label: "Agricultural Produce", RiskFactor: 0.20},
}

// DefaultLocation is the placeholder coordinate used when a trip's position
// cannot be resolved from the upstream payload (geographic centroid of India).
var DefaultLocation = models.LatLng{Lat: 20.5937, Lng: 78.9629}

var seedFleet = []models.FleetVehicle{
	{
		TripID: "TRIP-4821",
		Truck: models.TruckInfo{
			PlateNumber: "MH 04 JK 4521",
			CargoType:   "Electronics",
			CargoValue:  2400000,
			Route:       "Mumbai → Delhi",
		},
		Risk: models.RiskInfo{
			Score: 78,
			Level: models.RiskLevelCritical,
			Reasons: []string{
				"Route history shows a high incident rate on this corridor",
				"Declared cargo value makes this trip attractive to organised gangs",
			},
		},
		Location: models.LatLng{Lat: 22.3072, Lng: 73.1812},
		Status:   models.StatusAlert,
	},
	{
		TripID: "TRIP-4822",
		Truck: models.TruckInfo{
			PlateNumber: "KA 01 MN 8874",
			CargoType:   "Pharmaceuticals",
			CargoValue:  1800000,
			Route:       "Bengaluru → Hyderabad",
		},
		Risk: models.RiskInfo{
			Score: 52,
			Level: models.RiskLevelMedium,
			Reasons: []string{
				"Pharmaceuticals consignments are a frequent target for organised theft",
			},
		},
		Location: models.LatLng{Lat: 14.6819, Lng: 77.6006},
		Status:   models.StatusInTransit,
	},
	{
		TripID: "TRIP-4823",
		Truck: models.TruckInfo{
			PlateNumber: "WB 23 CD 3310",
			CargoType:   "FMCG",
			CargoValue:  600000,
			Route:       "Kolkata → Patna",
		},
		Risk: models.RiskInfo{
			Score: 61,
			Level: models.RiskLevelHigh,
			Reasons: []string{
				"Route history shows a high incident rate on this corridor",
				"Passes through known danger zones: Barhi Junction, Aurangabad Stretch",
			},
		},
		Location: models.LatLng{Lat: 24.3051, Lng: 85.4185},
		Status:   models.StatusAlert,
	},
	{
		TripID: "TRIP-4824",
		Truck: models.TruckInfo{
			PlateNumber: "TN 09 AB 7743",
			CargoType:   "Textiles",
			CargoValue:  450000,
			Route:       "Chennai → Mumbai",
		},
		Risk: models.RiskInfo{
			Score: 41,
			Level: models.RiskLevelMedium,
			Reasons: []string{
				"Passes through known danger zones: Krishnagiri Ghat, Solapur Bypass",
			},
		},
		Location: models.LatLng{Lat: 17.6599, Lng: 75.9064},
		Status:   models.StatusInTransit,
	},
	{
		TripID: "TRIP-4825",
		Truck: models.TruckInfo{
			PlateNumber: "RJ 14 GH 2205",
			CargoType:   "Agricultural Produce",
			CargoValue:  250000,
			Route:       "Delhi → Jaipur",
		},
		Risk: models.RiskInfo{
			Score: 28,
			Level: models.RiskLevelLow,
			Reasons: []string{
				"Standard precautions are sufficient for this trip",
			},
		},
		Location: models.LatLng{Lat: 27.8882, Lng: 76.2809},
		Status:   models.StatusInTransit,
	},
}

var seedAlertRisk = []int{88, 72, 64, 47}

var seedAlerts = []models.Alert{
	{
		ID:          "ALT-9107",
		TruckID:     "MH 04 JK 4521",
		Time:        "11:42 PM",
		Level:       models.RiskLevelCritical,
		Message:     "Unscheduled stop inside flagged zone Vadodara Outskirts",
		Explanation: "Vehicle stationary for 22 minutes in a high-incident segment with no planned halt.",
		RiskScore:   &seedAlertRisk[0],
		Category:    "route-deviation",
	},
	{
		ID:          "ALT-9104",
		TruckID:     "WB 23 CD 3310",
		Time:        "10:15 PM",
		Level:       models.RiskLevelHigh,
		Message:     "Route deviation of 4.8 km near Barhi Junction",
		Explanation: "Deviation onto an unlit service road correlates with historical hijack patterns.",
		RiskScore:   &seedAlertRisk[1],
		Category:    "route-deviation",
	},
	{
		ID:        "ALT-9101",
		TruckID:   "KA 01 MN 8874",
		Time:      "09:38 PM",
		Level:     models.RiskLevelHigh,
		Message:   "GPS signal lost for over 10 minutes",
		RiskScore: &seedAlertRisk[2],
		Category:  "signal-loss",
	},
	{
		ID:        "ALT-9096",
		TruckID:   "TN 09 AB 7743",
		Time:      "09:05 AM",
		Level:     models.RiskLevelMedium,
		Message:   "Speed anomaly: sustained 30 km/h below corridor average",
		RiskScore: &seedAlertRisk[3],
		Category:  "behaviour",
	},
}

// SeedFleet returns the fallback fleet snapshot.
func SeedFleet() []models.FleetVehicle {
	out := make([]models.FleetVehicle, len(seedFleet))
	copy(out, seedFleet)
	return out
}

// SeedAlerts returns the fallback alert feed.
func SeedAlerts() []models.Alert {
	out := make([]models.Alert, len(seedAlerts))
	copy(out, seedAlerts)
	return out
}

// DemoUser is the operator account accepted in mock mode.
var DemoUser = models.User{
	ID:    "usr-demo-01",
	Name:  "Fleet Operator",
	Email: "operator@fleetwatch.in",
	Role:  "admin",
}

// DemoPassword is the plaintext counterpart of DemoPasswordHash. Only ever
// honoured when mock mode is forced; a deployment can override the hash via
// DEMO_PASSWORD_HASH (see misc/hash-password).
const DemoPassword = "convoy@123"

var (
	demoHashOnce sync.Once
	demoHash     []byte
)

// DemoPasswordHash returns the bcrypt hash the mock login verifies against.
func DemoPasswordHash() []byte {
	demoHashOnce.Do(func() {
		demoHash, _ = bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	})
	return demoHash
}
