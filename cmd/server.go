package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/savora-app/savora_backend/config"
	"github.com/savora-app/savora_backend/metrics"
	"github.com/savora-app/savora_backend/middleware"
	"github.com/savora-app/savora_backend/utils"
)

const shutdownTimeout = 10 * time.Second

// newServer builds an echo instance with the middleware both servers share
func newServer(cfg config.AppConfig, service string, limits map[string]middleware.EndpointLimit) *echo.Echo {
	metrics.Register()

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewValidator()

	rateLimiter := middleware.NewRateLimiter(limits)

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.Metrics(service))
	e.Use(middleware.CORS(cfg.CORSOrigins))
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders(middleware.SecurityConfig{
		ConnectSources: cfg.CORSOrigins,
		HSTS:           !cfg.IsDevelopment(),
	}))
	return e
}

// serve runs e on port until ctx is cancelled, then shuts it down gracefully
func serve(ctx context.Context, e *echo.Echo, port string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
