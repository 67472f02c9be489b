package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// devOrigins are allowed when no origins are configured
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8081", // Expo dev server
	"http://localhost:19006",
}

// CORS allows the configured origins, falling back to local dev servers
func CORS(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = devOrigins
	}

	return echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentLength, echo.HeaderContentType},
		MaxAge:           86400, // 24 hours
	})
}
