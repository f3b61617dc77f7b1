package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"

	"fleetwatch/internal/models"
)

// TokenSource supplies the upstream bearer token when a session holds one.
type TokenSource interface {
	Token() (string, bool)
}

// ServiceInterface covers the best-effort write path towards the upstream
// agent endpoints. Every call makes exactly one attempt; failures are logged
// and swallowed, surfacing only as a false/nil/canned return value.
type ServiceInterface interface {
	PushTelemetry(ctx context.Context, frame models.TelemetryFrame) bool
	SendGPSPing(ctx context.Context, tripID string, lat, lng float64) bool
	CheckRoute(ctx context.Context, req models.RouteCheckRequest) *models.RouteCheckResult
	AnalyzeBehaviour(ctx context.Context, req models.BehaviourRequest) *models.BehaviourReport
	ExplainAlert(ctx context.Context, alertID string) models.AlertExplanation
	TriggerSimulation(ctx context.Context, req models.SimulationRequest) bool
}

// Service is the upstream agent adapter.
type Service struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewService creates a new agent adapter against the given base URL.
func NewService(baseURL string, tokens TokenSource) *Service {
	return &Service{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
	}
}

// PushTelemetry forwards one telemetry frame to the digital-twin agent.
func (s *Service) PushTelemetry(ctx context.Context, frame models.TelemetryFrame) bool {
	if err := s.postJSON(ctx, "/api/agents/digital-twin/telemetry", frame, nil); err != nil {
		log.WithError(err).Warn("telemetry push failed")
		return false
	}
	return true
}

// SendGPSPing reports a raw position fix for a trip.
func (s *Service) SendGPSPing(ctx context.Context, tripID string, lat, lng float64) bool {
	payload := map[string]interface{}{"trip_id": tripID, "lat": lat, "lng": lng}
	if err := s.postJSON(ctx, "/api/gps", payload, nil); err != nil {
		log.WithError(err).Warnf("gps ping failed for trip %s", tripID)
		return false
	}
	return true
}

// CheckRoute asks the route agent to vet a corridor. Returns nil when the
// agent is unreachable or answers with garbage.
func (s *Service) CheckRoute(ctx context.Context, req models.RouteCheckRequest) *models.RouteCheckResult {
	var result models.RouteCheckResult
	if err := s.postJSON(ctx, "/api/agents/route-check", req, &result); err != nil {
		log.WithError(err).Warn("route check failed")
		return nil
	}
	return &result
}

// AnalyzeBehaviour submits driving samples for anomaly analysis. Returns nil
// on any failure.
func (s *Service) AnalyzeBehaviour(ctx context.Context, req models.BehaviourRequest) *models.BehaviourReport {
	var report models.BehaviourReport
	if err := s.postJSON(ctx, "/api/agents/behaviour", req, &report); err != nil {
		log.WithError(err).Warnf("behaviour analysis failed for trip %s", req.TripID)
		return nil
	}
	return &report
}

// ExplainAlert fetches the explain agent's narrative for an alert. When the
// agent is unavailable a canned demo explanation is returned so the
// dashboard always has something to show.
func (s *Service) ExplainAlert(ctx context.Context, alertID string) models.AlertExplanation {
	var explanation models.AlertExplanation
	err := s.postJSON(ctx, "/api/agents/explain", map[string]string{"alert_id": alertID}, &explanation)
	if err != nil {
		log.WithError(err).Warnf("explain agent failed for alert %s", alertID)
		return models.AlertExplanation{
			AlertID:     alertID,
			Explanation: "This alert was raised because the trip's live behaviour deviated from its expected corridor profile. Detailed analysis is temporarily unavailable.",
			Confidence:  0,
		}
	}
	return explanation
}

// TriggerSimulation kicks off a named demo scenario upstream.
func (s *Service) TriggerSimulation(ctx context.Context, req models.SimulationRequest) bool {
	if err := s.postJSON(ctx, "/api/agents/simulate", req, nil); err != nil {
		log.WithError(err).Warnf("simulation trigger failed for scenario %s", req.Scenario)
		return false
	}
	return true
}

// postJSON performs a single POST with a JSON body, optionally decoding the
// response into out. No retries, no queuing: a failed call is the caller's
// fallback value.
func (s *Service) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("agents: encode %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("agents: build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.tokens != nil {
		if tok, ok := s.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("agents: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("agents: POST %s: unexpected status %d", path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("agents: POST %s: decode: %w", path, err)
		}
	}
	return nil
}
