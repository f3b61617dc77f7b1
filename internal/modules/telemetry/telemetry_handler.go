package telemetry

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler serves the dashboard's fleet and alert views.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new telemetry handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the telemetry routes on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/fleet", h.GetFleet)
	g.GET("/alerts", h.GetAlerts)
	g.GET("/alerts/count", h.GetAlertCounts)
}

// GetFleet returns the latest fleet snapshot. The underlying read is total;
// this endpoint cannot fail short of the process dying.
func (h *Handler) GetFleet(c echo.Context) error {
	fleet := h.svc.Fleet()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"vehicles": fleet,
		"count":    len(fleet),
	})
}

// GetAlerts returns the latest theft-alert feed.
func (h *Handler) GetAlerts(c echo.Context) error {
	alerts := h.svc.Alerts()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// GetAlertCounts returns per-severity tallies for the badge in the nav bar.
func (h *Handler) GetAlertCounts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.AlertCounts())
}
