package risk

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"fleetwatch/internal/models"
)

// Handler exposes the risk calculator to the dashboard.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new risk handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the risk routes on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/assess", h.AssessTrip)
}

// AssessTrip validates the submitted trip parameters and returns the fused
// risk report. The calculation itself cannot fail; only malformed input is
// rejected.
func (h *Handler) AssessTrip(c echo.Context) error {
	var req models.RiskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	report := h.svc.ComputeRiskReport(req)
	return c.JSON(http.StatusOK, report)
}
