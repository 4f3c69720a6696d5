package commands

import (
	"context"
	"fmt"
	"os"

	config "example.com/golfbuddy/internal/init"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

// rootCmd runs the mode named by MODE when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "golfbuddy",
	Short: "golfbuddy - social network backend for golfers",
	Long: `golfbuddy serves the golfer social network API and runs the
notification worker that turns activity events into per-user timelines.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Init(configFile)
		switch cfg.Mode {
		case "server":
			return runServer(cmd.Context(), cfg)
		case "worker":
			return runWorker(cmd.Context(), cfg)
		default:
			return fmt.Errorf("unknown mode: %s", cfg.Mode)
		}
	},
}

// Execute runs the root command
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: config.yaml in . or ./config)")
	rootCmd.PersistentFlags().String("postgres-dsn", "", "PostgreSQL connection URL")
	_ = viper.BindPFlag("POSTGRES_DSN", rootCmd.PersistentFlags().Lookup("postgres-dsn"))

	rootCmd.AddCommand(serverCmd, workerCmd, migrateCmd, pruneCmd)
}
