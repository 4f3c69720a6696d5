package commands

import (
	"context"
	"fmt"

	"example.com/golfbuddy/cmd/server"
	"example.com/golfbuddy/internal/auth"
	appkafka "example.com/golfbuddy/internal/broker"
	config "example.com/golfbuddy/internal/init"
	"example.com/golfbuddy/internal/social"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context(), config.Init(configFile))
	},
}

func init() {
	serverCmd.Flags().String("addr", "", "Listen address (default :8080)")
	_ = viper.BindPFlag("SERVER_ADDR", serverCmd.Flags().Lookup("addr"))
}

func runServer(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	blocklist, closeBlocklist, err := openBlocklist(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer closeBlocklist()

	writer, err := openWriter(cfg)
	if err != nil {
		return fmt.Errorf("kafka writer init failed: %w", err)
	}
	defer writer.Close()

	notes, err := openNotifications(cfg)
	if err != nil {
		return err
	}
	defer notes.Close()

	svc := social.NewService(st, auth.NewBcryptHasher(cfg.BcryptCost), appkafka.NewEventPublisher(writer))
	srv := server.New(svc, auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL), blocklist, notes)

	server.Run(ctx, srv, server.Options{
		Addr:        cfg.ServerAddr,
		TLSCertFile: cfg.TLSCertFile,
		TLSKeyFile:  cfg.TLSKeyFile,
		CORSOrigins: cfg.CORSOrigins,
	})
	logg.Info("Shutdown completed")
	return nil
}
