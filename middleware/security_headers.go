// middleware/security_headers.go
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityConfig controls the Content-Security-Policy of JSON responses
type SecurityConfig struct {
	// ConnectSources are extra origins allowed for websocket and fetch connections
	ConnectSources []string
	HSTS           bool
}

func SecurityHeaders(config SecurityConfig) echo.MiddlewareFunc {
	csp := buildCSP(config)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Content-Security-Policy", csp)
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Cache-Control", "no-store")
			if config.HSTS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}

func buildCSP(config SecurityConfig) string {
	csp := []string{
		"default-src 'none'",
		"frame-ancestors 'none'",
	}
	if len(config.ConnectSources) > 0 {
		csp = append(csp, "connect-src 'self' "+strings.Join(config.ConnectSources, " "))
	}
	return strings.Join(csp, "; ")
}
