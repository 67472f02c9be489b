package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/savora-app/savora_backend/controllers"
)

// RegisterMailRelayRoutes registers the routes of the mail relay server
func RegisterMailRelayRoutes(e *echo.Echo, emailController *controllers.EmailController) {
	e.GET("/api/status", controllers.Status)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	email := e.Group("/api/email")
	email.POST("/contact", emailController.SendContact)
	email.POST("/booking", emailController.SendBooking)
	email.POST("/order-confirmation", emailController.SendOrderConfirmation)
}
