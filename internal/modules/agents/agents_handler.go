package agents

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"fleetwatch/internal/models"
)

// Handler exposes the agent write path to the dashboard. These endpoints
// never report upstream failure as an HTTP error; the response body carries
// a delivered flag instead, since the dashboard treats agent calls as
// fire-and-forget.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new agents handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the agent routes on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/telemetry", h.PushTelemetry)
	g.POST("/gps", h.SendGPSPing)
	g.POST("/route-check", h.CheckRoute)
	g.POST("/behaviour", h.AnalyzeBehaviour)
	g.POST("/explain/:alertId", h.ExplainAlert)
	g.POST("/simulate", h.TriggerSimulation)
}

// PushTelemetry forwards a telemetry frame from the demo driver app.
func (h *Handler) PushTelemetry(c echo.Context) error {
	var frame models.TelemetryFrame
	if err := c.Bind(&frame); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(frame); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	delivered := h.svc.PushTelemetry(c.Request().Context(), frame)
	return c.JSON(http.StatusOK, map[string]bool{"delivered": delivered})
}

// SendGPSPing forwards a raw position fix.
func (h *Handler) SendGPSPing(c echo.Context) error {
	var req struct {
		TripID string  `json:"trip_id" validate:"required"`
		Lat    float64 `json:"lat"`
		Lng    float64 `json:"lng"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	delivered := h.svc.SendGPSPing(c.Request().Context(), req.TripID, req.Lat, req.Lng)
	return c.JSON(http.StatusOK, map[string]bool{"delivered": delivered})
}

// CheckRoute asks the route agent to vet a corridor. A 502 signals the
// agent was unreachable; unlike the fire-and-forget endpoints the caller
// needs the verdict to proceed.
func (h *Handler) CheckRoute(c echo.Context) error {
	var req models.RouteCheckRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	result := h.svc.CheckRoute(c.Request().Context(), req)
	if result == nil {
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: "Route agent unavailable"})
	}
	return c.JSON(http.StatusOK, result)
}

// AnalyzeBehaviour submits driving samples for anomaly analysis.
func (h *Handler) AnalyzeBehaviour(c echo.Context) error {
	var req models.BehaviourRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	report := h.svc.AnalyzeBehaviour(c.Request().Context(), req)
	if report == nil {
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: "Behaviour agent unavailable"})
	}
	return c.JSON(http.StatusOK, report)
}

// ExplainAlert returns the explain agent's narrative for an alert. Always
// succeeds; the service substitutes a canned explanation when the agent is
// down.
func (h *Handler) ExplainAlert(c echo.Context) error {
	alertID := c.Param("alertId")
	if alertID == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Alert ID is required"})
	}
	return c.JSON(http.StatusOK, h.svc.ExplainAlert(c.Request().Context(), alertID))
}

// TriggerSimulation kicks off a named demo scenario upstream.
func (h *Handler) TriggerSimulation(c echo.Context) error {
	var req models.SimulationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	delivered := h.svc.TriggerSimulation(c.Request().Context(), req)
	return c.JSON(http.StatusOK, map[string]bool{"delivered": delivered})
}
