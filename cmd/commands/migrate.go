package commands

import (
	"fmt"
	"time"

	config "example.com/golfbuddy/internal/init"
	"example.com/golfbuddy/internal/store"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply PostgreSQL and Cassandra migrations, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Init(configFile)
		if err := store.MigratePostgres(cfg.PostgresDSN); err != nil {
			return fmt.Errorf("postgres migrations failed: %w", err)
		}
		logg.Info("PostgreSQL migrations applied")

		if cfg.CassandraHost == "" {
			logg.Info("No Cassandra host configured, skipping notification migrations")
			return nil
		}
		notes, err := store.NewNotifications(cassandraConfig(cfg))
		if err != nil {
			return err
		}
		notes.Close()
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune-tokens",
	Short: "Delete revocation records of tokens that have expired",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Init(configFile)
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.PruneRevoked(cmd.Context(), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("prune failed: %w", err)
		}
		logg.Info(fmt.Sprintf("Pruned %d expired revocation records", n))
		return nil
	},
}
