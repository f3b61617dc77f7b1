package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fleetwatch/internal/config"
	"fleetwatch/internal/models"
	"fleetwatch/internal/modules/agents"
	"fleetwatch/internal/modules/auth"
	"fleetwatch/internal/modules/risk"
	"fleetwatch/internal/modules/telemetry"
	"fleetwatch/internal/notify"
	"fleetwatch/internal/poller"
	"fleetwatch/internal/refdata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	if cfg.ForceMockMode {
		log.Info("mock mode forced: serving demo telemetry, upstream untouched")
	}

	// The token store is shared: the auth service fills it on live login and
	// the read/write gateways present it upstream.
	tokenStore := auth.NewMemoryTokenStore()

	gateway := telemetry.NewGateway(cfg.UpstreamBaseURL, cfg.ForceMockMode, tokenStore)
	telemetrySvc := telemetry.NewService(gateway)
	riskSvc := risk.NewService(refdata.Routes, refdata.Cargos, nil)
	agentsSvc := agents.NewService(cfg.UpstreamBaseURL, tokenStore)
	authSvc := auth.NewService(cfg.UpstreamBaseURL, cfg.ForceMockMode, cfg.JWTSecret, cfg.DemoPasswordHash, tokenStore)

	notifier := notify.NewEmailNotifier(ctx, cfg.AlertEmailFrom, cfg.AlertRecipients())

	fleetPoller := poller.New("fleet", cfg.FleetPollInterval, nil, func(ctx context.Context) {
		telemetrySvc.RefreshFleet(ctx)
	})
	alertPoller := poller.New("alerts", cfg.AlertPollInterval, nil, func(ctx context.Context) {
		telemetrySvc.RefreshAlerts(ctx)
		notifier.NotifyCritical(ctx, telemetrySvc.Alerts())
	})
	if err := fleetPoller.Start(ctx); err != nil {
		log.WithError(err).Fatal("failed to start fleet poller")
	}
	if err := alertPoller.Start(ctx); err != nil {
		log.WithError(err).Fatal("failed to start alert poller")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	authHandler := auth.NewHandler(authSvc)
	authHandler.RegisterPublicRoutes(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid or missing token"})
		},
	}))

	authHandler.RegisterProtectedRoutes(protected.Group("/auth"))
	risk.NewHandler(riskSvc).RegisterRoutes(protected.Group("/risk"))
	telemetry.NewHandler(telemetrySvc).RegisterRoutes(protected)
	agents.NewHandler(agentsSvc).RegisterRoutes(protected.Group("/agents"))

	go func() {
		addr := ":" + cfg.ServerPort
		log.Infof("server listening on %s", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	fleetPoller.Stop()
	alertPoller.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	log.Info("stopped")
}
