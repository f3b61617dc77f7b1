package risk

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zoobzio/clockz"

	"fleetwatch/internal/models"
	"fleetwatch/internal/refdata"
)

func newTestService() *Service {
	return NewService(refdata.Routes, refdata.Cargos, clockz.NewFakeClock())
}

func TestComputeRiskReportWorkedExample(t *testing.T) {
	svc := newTestService()

	report := svc.ComputeRiskReport(models.RiskRequest{
		Route:               "Delhi → Jaipur",
		CargoType:           "Pharmaceuticals",
		TravelTime:          models.TravelDay,
		CargoValue:          3_200_000,
		DistanceKm:          270,
		DriverExperienceYrs: 12,
	})

	wantSubScores := map[string]int{
		"Route Risk":  25,
		"Cargo Risk":  80,
		"Time Risk":   25,
		"Value Risk":  90,
		"Driver Risk": 10,
	}
	for _, entry := range report.Breakdown {
		if want := wantSubScores[entry.Name]; entry.Score != want {
			t.Errorf("%s = %d; want %d", entry.Name, entry.Score, want)
		}
	}
	// round(25*.3 + 80*.25 + 25*.2 + 90*.15 + 10*.1) = round(47) = 47
	if report.Score != 47 {
		t.Errorf("Score = %d; want 47", report.Score)
	}
	if report.Level != models.RiskLevelMedium {
		t.Errorf("Level = %s; want Medium", report.Level)
	}
}

func TestScoreMatchesWeightedBreakdown(t *testing.T) {
	svc := newTestService()

	requests := []models.RiskRequest{
		{Route: "Kolkata → Patna", CargoType: "Electronics", TravelTime: models.TravelNight, CargoValue: 2_500_000, DriverExperienceYrs: 1},
		{Route: "Delhi → Jaipur", CargoType: "Agricultural Produce", TravelTime: models.TravelDay, CargoValue: 100_000, DriverExperienceYrs: 15},
		{Route: "Mumbai → Delhi", CargoType: "Fuel & Petrochemicals", TravelTime: models.TravelNight, CargoValue: 900_000, DriverExperienceYrs: 6},
	}
	for _, req := range requests {
		report := svc.ComputeRiskReport(req)

		weightSum := 0
		weighted := 0
		for _, entry := range report.Breakdown {
			weightSum += entry.Weight
			weighted += entry.Score * entry.Weight
		}
		if weightSum != 100 {
			t.Fatalf("breakdown weights sum to %d; want 100", weightSum)
		}
		want := (weighted + 50) / 100 // round(weighted/100) for non-negative scores
		if report.Score != want {
			t.Errorf("route %q: Score = %d; breakdown recomputes to %d", req.Route, report.Score, want)
		}
		if report.Level != models.RiskLevelForScore(report.Score) {
			t.Errorf("route %q: Level = %s; not a pure function of score", req.Route, report.Level)
		}
	}
}

func TestRiskLevelBreakpoints(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{75, models.RiskLevelCritical},
		{74, models.RiskLevelHigh},
		{55, models.RiskLevelHigh},
		{54, models.RiskLevelMedium},
		{35, models.RiskLevelMedium},
		{34, models.RiskLevelLow},
	}
	for _, tt := range cases {
		if got := models.RiskLevelForScore(tt.score); got != tt.want {
			t.Errorf("RiskLevelForScore(%d) = %s; want %s", tt.score, got, tt.want)
		}
	}
}

func TestDriverRiskBounds(t *testing.T) {
	cases := []struct {
		years float64
		want  int
	}{
		{0, 100},
		{5, 60},
		{11.25, 10},
		{12, 10},
		{40, 10}, // floor holds no matter how experienced
	}
	for _, tt := range cases {
		if got := driverRiskFor(tt.years); got != tt.want {
			t.Errorf("driverRiskFor(%v) = %d; want %d", tt.years, got, tt.want)
		}
	}
}

func TestValueRiskBreakpoints(t *testing.T) {
	cases := []struct {
		value float64
		want  int
	}{
		{2_000_001, 90},
		{2_000_000, 65},
		{1_000_001, 65},
		{1_000_000, 45},
		{500_001, 45},
		{500_000, 25},
		{0, 25},
	}
	for _, tt := range cases {
		if got := valueRiskFor(tt.value); got != tt.want {
			t.Errorf("valueRiskFor(%v) = %d; want %d", tt.value, got, tt.want)
		}
	}
}

func TestUnknownKeysFallBackToFirstRow(t *testing.T) {
	svc := newTestService()

	report := svc.ComputeRiskReport(models.RiskRequest{
		Route:      "Nowhere → Elsewhere",
		CargoType:  "Moon Rocks",
		TravelTime: models.TravelDay,
	})

	if report.Route != refdata.Routes[0].Label {
		t.Errorf("fallback route = %q; want %q", report.Route, refdata.Routes[0].Label)
	}
	if report.CargoType != refdata.Cargos[0].ID {
		t.Errorf("fallback cargo = %q; want %q", report.CargoType, refdata.Cargos[0].ID)
	}
	if !reflect.DeepEqual(report.DangerZones, refdata.Routes[0].DangerZones) {
		t.Errorf("danger zones not copied from fallback route")
	}
}

func TestDeterminism(t *testing.T) {
	svc := newTestService()
	req := models.RiskRequest{
		Route:               "Mumbai → Delhi",
		CargoType:           "Electronics",
		TravelTime:          models.TravelNight,
		CargoValue:          1_500_000,
		DriverExperienceYrs: 3,
	}

	a := svc.ComputeRiskReport(req)
	b := svc.ComputeRiskReport(req)

	if a.Score != b.Score || a.Level != b.Level {
		t.Errorf("score/level differ across identical inputs: %d/%s vs %d/%s", a.Score, a.Level, b.Score, b.Level)
	}
	if !reflect.DeepEqual(a.Breakdown, b.Breakdown) {
		t.Errorf("breakdown differs across identical inputs")
	}
	if !reflect.DeepEqual(a.Reasons, b.Reasons) {
		t.Errorf("reasons differ across identical inputs")
	}
}

func TestReasonsFollowCheckOrder(t *testing.T) {
	svc := newTestService()

	// Worst case trips every trigger: night, risky cargo, risky route,
	// high value, rookie driver, corridor with danger zones.
	report := svc.ComputeRiskReport(models.RiskRequest{
		Route:               "Kolkata → Patna",
		CargoType:           "Pharmaceuticals",
		TravelTime:          models.TravelNight,
		CargoValue:          3_000_000,
		DriverExperienceYrs: 0,
	})

	wantPrefixes := []string{
		"Night travel",
		"Pharmaceuticals consignments",
		"Route history",
		"Declared cargo value",
		"Limited driver experience",
		"Passes through known danger zones",
	}
	if len(report.Reasons) != len(wantPrefixes) {
		t.Fatalf("got %d reasons; want %d: %v", len(report.Reasons), len(wantPrefixes), report.Reasons)
	}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(report.Reasons[i], prefix) {
			t.Errorf("reason[%d] = %q; want prefix %q", i, report.Reasons[i], prefix)
		}
	}

	seen := map[string]bool{}
	for _, r := range report.Reasons {
		if seen[r] {
			t.Errorf("duplicate reason %q", r)
		}
		seen[r] = true
	}
}

func TestLowRiskTripGetsReassuringMessage(t *testing.T) {
	svc := newTestService()

	report := svc.ComputeRiskReport(models.RiskRequest{
		Route:               "Delhi → Jaipur",
		CargoType:           "Agricultural Produce",
		TravelTime:          models.TravelDay,
		CargoValue:          100_000,
		DriverExperienceYrs: 20,
	})

	if report.Score >= 35 {
		t.Fatalf("expected a sub-35 score for the tame trip, got %d", report.Score)
	}
	last := report.Reasons[len(report.Reasons)-1]
	if !strings.HasPrefix(last, "Standard precautions") {
		t.Errorf("last reason = %q; want the standard-precautions message", last)
	}
}
