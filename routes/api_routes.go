package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/savora-app/savora_backend/controllers"
	"github.com/savora-app/savora_backend/middleware"
	"github.com/savora-app/savora_backend/websocket"
)

// APIControllers are the handlers of the ordering API
type APIControllers struct {
	Cart          *controllers.CartController
	Favorites     *controllers.FavoritesController
	Notifications *controllers.NotificationController
	Settings      *controllers.SettingsController
	Orders        *controllers.OrderController
}

// RegisterAPIRoutes registers every route of the ordering API
func RegisterAPIRoutes(e *echo.Echo, ctrl APIControllers, hub *websocket.Hub, jwtSecret string) {
	e.GET("/api/status", controllers.Status)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api", middleware.JWTMiddleware(jwtSecret))

	// Cart
	api.GET("/cart", ctrl.Cart.GetCart)
	api.DELETE("/cart", ctrl.Cart.ClearCart)
	api.GET("/cart/summary", ctrl.Cart.GetSummary)
	api.POST("/cart/items", ctrl.Cart.AddItem)
	api.POST("/cart/lines/:id/increase", ctrl.Cart.IncreaseQuantity)
	api.POST("/cart/lines/:id/decrease", ctrl.Cart.DecreaseQuantity)
	api.DELETE("/cart/lines/:id", ctrl.Cart.RemoveLine)

	// Orders
	api.POST("/orders/checkout", ctrl.Orders.Checkout)

	// Favorites
	api.GET("/favorites", ctrl.Favorites.GetFavorites)
	api.POST("/favorites/toggle", ctrl.Favorites.ToggleFavorite)
	api.DELETE("/favorites/:id", ctrl.Favorites.RemoveFavorite)
	api.GET("/favorites/:id/status", ctrl.Favorites.FavoriteStatus)

	// Notifications
	api.GET("/notifications", ctrl.Notifications.GetNotifications)
	api.POST("/notifications", ctrl.Notifications.ShowNotification)
	api.DELETE("/notifications", ctrl.Notifications.ClearAllNotifications)
	api.DELETE("/notifications/:id", ctrl.Notifications.DismissNotification)
	api.POST("/notifications/:id/action", ctrl.Notifications.PressAction)
	api.GET("/notifications/settings", ctrl.Notifications.GetSettings)
	api.PATCH("/notifications/settings", ctrl.Notifications.UpdateSettings)
	api.POST("/notifications/initialize", ctrl.Notifications.InitializeNotifications)

	// Settings
	api.GET("/settings", ctrl.Settings.GetAppSettings)
	api.PATCH("/settings", ctrl.Settings.UpdateAppSettings)
	api.GET("/restaurant-settings", ctrl.Settings.GetRestaurantSettings)

	// Admin
	admin := api.Group("/admin", middleware.RequireRole("admin"))
	admin.PUT("/restaurant-settings", ctrl.Settings.UpdateRestaurantSettings)
	admin.POST("/notifications", ctrl.Notifications.SendToUser)

	// Notification event stream
	api.GET("/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, hub, middleware.GetUserIDFromToken(c))
	})
}
