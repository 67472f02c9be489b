package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/savora-app/savora_backend/config"
	"github.com/savora-app/savora_backend/controllers"
	"github.com/savora-app/savora_backend/metrics"
	"github.com/savora-app/savora_backend/middleware"
	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/repositories"
	"github.com/savora-app/savora_backend/routes"
	"github.com/savora-app/savora_backend/services"
	"github.com/savora-app/savora_backend/stores"
	"github.com/savora-app/savora_backend/websocket"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the ordering API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runAPI(ctx, config.Load(viper.GetViper()))
	},
}

func init() {
	apiCmd.Flags().String("port", "", "port for the API server")
	viper.BindPFlag("port", apiCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(apiCmd)
}

func runAPI(ctx context.Context, cfg config.AppConfig) error {
	// Connect to database
	client, err := config.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.DBName)

	// Redis is optional; without it nothing is snapshotted
	var snapshot stores.Snapshotter
	if redisClient := config.ConnectRedis(cfg); redisClient != nil {
		defer redisClient.Close()
		snapshot = repositories.NewSnapshotRepository(redisClient, cfg.SnapshotPrefix)
	}

	// Initialize Firebase
	firebaseApp, err := config.InitFirebase(cfg)
	if err != nil {
		log.Printf("Warning: Firebase not initialized, push delivery disabled: %v", err)
	}
	pushService, err := services.NewPushService(ctx, firebaseApp)
	if err != nil {
		return err
	}

	// Initialize repositories
	favoriteRepo := repositories.NewFavoriteRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	settingsRepo := repositories.NewRestaurantSettingsRepository(db)

	reminders := services.NewReminderScheduler(pushService)
	defer reminders.Stop()

	restaurantSettings := stores.NewRestaurantSettings(settingsRepo, snapshot, stores.KeyRestaurantSettings)
	if err := restaurantSettings.Restore(ctx); err != nil {
		log.Printf("Error restoring restaurant settings: %v", err)
	}

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	defer wsHub.Close()

	sessions := stores.NewSessions(stores.SessionDeps{
		Favorites: favoriteRepo,
		Snapshot:  snapshot,
		Notifications: stores.NotificationOptions{
			DefaultDuration:  cfg.NotificationDuration,
			MaxVisible:       cfg.NotificationMax,
			StackSpacing:     cfg.NotificationSpacing,
			ExitDelay:        cfg.NotificationExit,
			ReminderInterval: cfg.ReminderInterval,
		},
		OnNotification: func(userID string, ev models.NotificationEvent) {
			if ev.Kind == models.EventShown && ev.Notification != nil {
				metrics.NotificationsShown.WithLabelValues(string(ev.Notification.Category)).Inc()
			}
			wsHub.PublishNotificationEvent(userID, ev)
		},
	})

	if cfg.SessionIdleTimeout > 0 {
		go sessions.RunEviction(ctx, time.Minute, cfg.SessionIdleTimeout)
	}

	mailService := services.NewMailService(cfg)
	orderService := services.NewOrderService(restaurantSettings, mailService, pushService, profileRepo)

	// Initialize controllers
	ctrl := routes.APIControllers{
		Cart:          controllers.NewCartController(sessions, restaurantSettings),
		Favorites:     controllers.NewFavoritesController(sessions),
		Notifications: controllers.NewNotificationController(sessions, profileRepo, pushService, reminders),
		Settings:      controllers.NewSettingsController(sessions, restaurantSettings),
		Orders:        controllers.NewOrderController(sessions, orderService),
	}

	e := newServer(cfg, "api", middleware.APIEndpointLimits())
	routes.RegisterAPIRoutes(e, ctrl, wsHub, cfg.JWTSecret)

	return serve(ctx, e, cfg.Port)
}
