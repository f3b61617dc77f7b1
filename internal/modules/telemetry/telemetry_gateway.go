package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"

	"fleetwatch/internal/models"
	"fleetwatch/internal/refdata"
)

// Display timezone and layout for alert times. The feed is sorted on this
// rendered string, not the underlying instant — see FetchAlertFeed.
var displayZone = time.FixedZone("IST", 5*3600+1800)

const alertTimeLayout = "03:04 PM"

// TokenSource supplies the upstream bearer token when a session holds one.
type TokenSource interface {
	Token() (string, bool)
}

// GatewayInterface is the read contract the dashboard service depends on.
// Both operations are total: they log and fall back, never error.
type GatewayInterface interface {
	FetchFleetSnapshot(ctx context.Context) []models.FleetVehicle
	FetchAlertFeed(ctx context.Context) []models.Alert
}

// Gateway adapts the upstream fleet API into the dashboard's stable schema,
// substituting the seed dataset whenever the upstream misbehaves. One live
// attempt per call; retry only happens via the caller's next poll cycle.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	mock       bool
	tokens     TokenSource
}

// NewGateway creates a gateway against the given base URL. When mock is set
// the network is never touched and every read returns the seed data.
func NewGateway(baseURL string, mock bool, tokens TokenSource) *Gateway {
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		mock:       mock,
		tokens:     tokens,
	}
}

// ---- upstream payload shapes ----
// Decoding is strict-typed; a decode failure or missing required field is a
// shape failure and feeds the same fallback policy as a transport failure.

type upstreamTrip struct {
	ID          string  `json:"id"`
	PlateNumber string  `json:"plate_number"`
	CargoType   string  `json:"cargo_type"`
	CargoValue  float64 `json:"cargo_value"`
	Route       string  `json:"route"`
}

type upstreamLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type upstreamTripDashboard struct {
	RiskScore         int             `json:"risk_score"`
	RiskReasons       []string        `json:"risk_reasons"`
	LiveLocation      *upstreamLatLng `json:"live_location"`
	LastKnownPosition string          `json:"last_known_position"`
}

type upstreamAlert struct {
	ID          string `json:"id"`
	TruckID     string `json:"truck_id"`
	Timestamp   string `json:"timestamp"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Explanation string `json:"ai_explanation"`
	RiskScore   *int   `json:"risk_score"`
	Category    string `json:"category"`
}

// FetchFleetSnapshot returns the current fleet, preferring live data and
// degrading to the seed fleet on any failure. Individual trips whose detail
// fetch fails are skipped; an empty mapped batch triggers the batch-level
// seed fallback.
func (g *Gateway) FetchFleetSnapshot(ctx context.Context) []models.FleetVehicle {
	if g.mock {
		return refdata.SeedFleet()
	}

	var trips []upstreamTrip
	if err := g.getJSON(ctx, "/api/trips", &trips); err != nil {
		log.WithError(err).Warn("fleet fetch failed, serving seed data")
		return refdata.SeedFleet()
	}
	if len(trips) == 0 {
		log.Warn("fleet fetch returned no trips, serving seed data")
		return refdata.SeedFleet()
	}

	fleet := make([]models.FleetVehicle, 0, len(trips))
	for _, t := range trips {
		var detail upstreamTripDashboard
		if err := g.getJSON(ctx, "/api/trips/"+t.ID+"/dashboard", &detail); err != nil {
			log.WithError(err).Warnf("trip %s detail fetch failed, skipping", t.ID)
			continue
		}
		fleet = append(fleet, mapVehicle(t, detail))
	}
	if len(fleet) == 0 {
		log.Warn("no trips survived mapping, serving seed data")
		return refdata.SeedFleet()
	}
	return fleet
}

// FetchAlertFeed returns the theft-alert feed, seed-substituted on failure.
// The result is ordered by the rendered display time, descending and
// lexicographic: cross-midnight and AM/PM orderings can come out wrong, but
// that string comparison is the behaviour the dashboard has always shown.
func (g *Gateway) FetchAlertFeed(ctx context.Context) []models.Alert {
	if g.mock {
		return refdata.SeedAlerts()
	}

	var raw []upstreamAlert
	if err := g.getJSON(ctx, "/api/alerts", &raw); err != nil {
		log.WithError(err).Warn("alert fetch failed, serving seed data")
		return refdata.SeedAlerts()
	}
	if len(raw) == 0 {
		log.Warn("alert fetch returned no alerts, serving seed data")
		return refdata.SeedAlerts()
	}

	alerts := make([]models.Alert, 0, len(raw))
	for _, a := range raw {
		alerts = append(alerts, mapAlert(a))
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].Time > alerts[j].Time
	})
	return alerts
}

// mapVehicle converts one upstream trip plus its dashboard detail into the
// internal snapshot shape.
func mapVehicle(t upstreamTrip, d upstreamTripDashboard) models.FleetVehicle {
	level := models.RiskLevelForScore(d.RiskScore)
	status := models.StatusInTransit
	if level == models.RiskLevelHigh || level == models.RiskLevelCritical {
		status = models.StatusAlert
	}
	return models.FleetVehicle{
		TripID: t.ID,
		Truck: models.TruckInfo{
			PlateNumber: t.PlateNumber,
			CargoType:   t.CargoType,
			CargoValue:  t.CargoValue,
			Route:       t.Route,
		},
		Risk: models.RiskInfo{
			Score:   d.RiskScore,
			Level:   level,
			Reasons: dedupe(d.RiskReasons),
		},
		Location: resolveLocation(d),
		Status:   status,
	}
}

func mapAlert(a upstreamAlert) models.Alert {
	display := a.Timestamp
	if ts, err := time.Parse(time.RFC3339, a.Timestamp); err == nil {
		display = ts.In(displayZone).Format(alertTimeLayout)
	}
	level := a.Severity
	if level == "" && a.RiskScore != nil {
		level = models.RiskLevelForScore(*a.RiskScore)
	}
	return models.Alert{
		ID:          a.ID,
		TruckID:     a.TruckID,
		Time:        display,
		Level:       level,
		Message:     a.Message,
		Explanation: a.Explanation,
		RiskScore:   a.RiskScore,
		Category:    a.Category,
	}
}

// resolveLocation picks the trip position by priority: live-location field,
// then the packed "[lat, lng]" string, then the fixed centroid placeholder.
func resolveLocation(d upstreamTripDashboard) models.LatLng {
	if d.LiveLocation != nil {
		return models.LatLng{Lat: d.LiveLocation.Lat, Lng: d.LiveLocation.Lng}
	}
	if loc, ok := parsePackedCoords(d.LastKnownPosition); ok {
		return loc
	}
	return refdata.DefaultLocation
}

// parsePackedCoords parses a coordinate string like "[12.97, 77.59]" by
// stripping bracket characters and splitting on the comma.
func parsePackedCoords(s string) (models.LatLng, bool) {
	s = strings.NewReplacer("[", "", "]", "", "(", "", ")", "").Replace(s)
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return models.LatLng{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.LatLng{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.LatLng{}, false
	}
	return models.LatLng{Lat: lat, Lng: lng}, true
}

// dedupe drops repeated reason strings, keeping first occurrence order.
func dedupe(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// getJSON performs a single GET against the upstream API and decodes the
// body into out. Transport errors, non-2xx statuses and undecodable bodies
// are all returned as errors for the caller's fallback policy.
func (g *Gateway) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("gateway: build request %s: %w", path, err)
	}
	if g.tokens != nil {
		if tok, ok := g.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway: GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: GET %s: decode: %w", path, err)
	}
	return nil
}
