package commands

import (
	"context"
	"errors"

	"example.com/golfbuddy/cmd/worker"
	appkafka "example.com/golfbuddy/internal/broker"
	config "example.com/golfbuddy/internal/init"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume activity events and write notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorker(cmd.Context(), config.Init(configFile))
	},
}

func runWorker(ctx context.Context, cfg *config.Config) error {
	if cfg.KafkaBroker == "" {
		return errors.New("worker needs KAFKA_BROKER")
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	notes, err := openNotifications(cfg)
	if err != nil {
		st.Close()
		return err
	}

	reader := appkafka.NewKafkaReader(kafkaConfig(cfg))
	w := worker.New(st, notes, reader, cfg.WorkerCount, cfg.WorkerQueueSize)
	w.Run(ctx)

	logg.Info("Shutdown completed")
	return w.Close()
}
