package agents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"fleetwatch/internal/models"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

func newTestService(rt roundTripFunc, tokens TokenSource) *Service {
	svc := NewService("http://upstream.test", tokens)
	svc.httpClient = &http.Client{Transport: rt}
	return svc
}

func TestPushTelemetryReportsDelivery(t *testing.T) {
	var gotPath string
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		return jsonResponse(http.StatusOK, `{}`), nil
	}, nil)

	ok := svc.PushTelemetry(context.Background(), models.TelemetryFrame{TripID: "TRIP-4821"})
	if !ok {
		t.Fatal("PushTelemetry = false on 200 response; want true")
	}
	if gotPath != "/api/agents/digital-twin/telemetry" {
		t.Errorf("posted to %q; want /api/agents/digital-twin/telemetry", gotPath)
	}
}

func TestPushTelemetrySwallowsTransportError(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}, nil)

	if svc.PushTelemetry(context.Background(), models.TelemetryFrame{TripID: "TRIP-4821"}) {
		t.Error("PushTelemetry = true on transport error; want false")
	}
}

func TestPushTelemetryMakesSingleAttempt(t *testing.T) {
	attempts := 0
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		attempts++
		return jsonResponse(http.StatusServiceUnavailable, `{}`), nil
	}, nil)

	svc.PushTelemetry(context.Background(), models.TelemetryFrame{TripID: "TRIP-4821"})
	if attempts != 1 {
		t.Errorf("made %d attempts; want exactly 1, no retries", attempts)
	}
}

func TestCheckRouteReturnsNilOnBadStatus(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `{}`), nil
	}, nil)

	if got := svc.CheckRoute(context.Background(), models.RouteCheckRequest{Route: "Delhi → Jaipur"}); got != nil {
		t.Errorf("CheckRoute = %+v on 502; want nil", got)
	}
}

func TestCheckRouteDecodesVerdict(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"route":"Delhi → Jaipur","verdict":"clear","score":22,"advisories":["Refuel before Behror"]}`), nil
	}, nil)

	got := svc.CheckRoute(context.Background(), models.RouteCheckRequest{Route: "Delhi → Jaipur"})
	if got == nil {
		t.Fatal("CheckRoute = nil; want a result")
	}
	if got.Verdict != "clear" || got.Score != 22 {
		t.Errorf("verdict = %q score = %d; want clear / 22", got.Verdict, got.Score)
	}
}

func TestAnalyzeBehaviourReturnsNilOnMalformedPayload(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `not json`), nil
	}, nil)

	got := svc.AnalyzeBehaviour(context.Background(), models.BehaviourRequest{TripID: "TRIP-4821"})
	if got != nil {
		t.Errorf("AnalyzeBehaviour = %+v on malformed payload; want nil", got)
	}
}

func TestExplainAlertFallsBackToCannedNarrative(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("agent down")
	}, nil)

	got := svc.ExplainAlert(context.Background(), "ALERT-9")
	if got.AlertID != "ALERT-9" {
		t.Errorf("fallback AlertID = %q; want ALERT-9", got.AlertID)
	}
	if got.Explanation == "" {
		t.Error("fallback explanation is empty; want a canned narrative")
	}
	if got.Confidence != 0 {
		t.Errorf("fallback confidence = %v; want 0", got.Confidence)
	}
}

func TestExplainAlertUsesAgentNarrativeWhenAvailable(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"alert_id":"ALERT-9","explanation":"Unscheduled stop inside a flagged zone.","confidence":0.91}`), nil
	}, nil)

	got := svc.ExplainAlert(context.Background(), "ALERT-9")
	if got.Confidence != 0.91 {
		t.Errorf("confidence = %v; want 0.91 from the agent", got.Confidence)
	}
	if !strings.Contains(got.Explanation, "Unscheduled stop") {
		t.Errorf("explanation = %q; want the agent's narrative", got.Explanation)
	}
}

func TestAgentCallsAttachBearerToken(t *testing.T) {
	var gotAuth string
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		gotAuth = req.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `{}`), nil
	}, staticToken("upstream-token"))

	svc.TriggerSimulation(context.Background(), models.SimulationRequest{Scenario: "night-theft"})
	if gotAuth != "Bearer upstream-token" {
		t.Errorf("Authorization = %q; want Bearer upstream-token", gotAuth)
	}
}
