package auth

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"fleetwatch/internal/models"
)

// Handler serves the session endpoints.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new auth handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes mounts the routes that require no session.
func (h *Handler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
}

// RegisterProtectedRoutes mounts the routes behind the JWT middleware.
func (h *Handler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me)
}

// Login verifies credentials and issues a session token.
func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	session, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid email or password"})
		}
		c.Logger().Error("AuthHandler.Login: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Login failed"})
	}
	return c.JSON(http.StatusOK, session)
}

// Logout ends the session. Always succeeds.
func (h *Handler) Logout(c echo.Context) error {
	h.svc.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the operator profile for the active session.
func (h *Handler) Me(c echo.Context) error {
	user, err := h.svc.CurrentUser(c.Request().Context())
	if err != nil {
		if errors.Is(err, models.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Session expired"})
		}
		c.Logger().Error("AuthHandler.Me: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load profile"})
	}
	return c.JSON(http.StatusOK, user)
}
