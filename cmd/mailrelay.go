package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/savora-app/savora_backend/config"
	"github.com/savora-app/savora_backend/controllers"
	"github.com/savora-app/savora_backend/middleware"
	"github.com/savora-app/savora_backend/routes"
	"github.com/savora-app/savora_backend/services"
)

var mailRelayCmd = &cobra.Command{
	Use:   "mailrelay",
	Short: "Run the mail relay server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runMailRelay(ctx, config.Load(viper.GetViper()))
	},
}

func init() {
	mailRelayCmd.Flags().String("port", "", "port for the mail relay server")
	viper.BindPFlag("mail_relay_port", mailRelayCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(mailRelayCmd)
}

func runMailRelay(ctx context.Context, cfg config.AppConfig) error {
	emailController := controllers.NewEmailController(services.NewMailService(cfg))

	e := newServer(cfg, "mailrelay", middleware.MailRelayEndpointLimits())
	routes.RegisterMailRelayRoutes(e, emailController)

	return serve(ctx, e, cfg.MailRelayPort)
}
