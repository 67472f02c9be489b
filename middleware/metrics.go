package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/savora-app/savora_backend/metrics"
)

// Metrics records request counts and latency per route for service
func Metrics(service string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			startTime := time.Now()

			err := next(c)
			if err != nil {
				// let echo write the error response so the status is final
				c.Error(err)
			}

			duration := time.Since(startTime).Seconds()
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.TotalRequests.WithLabelValues(service, method, path, status).Inc()
			metrics.RequestDuration.WithLabelValues(service, method, path, status).Observe(duration)
			return nil
		}
	}
}
