package commands

import (
	"context"
	"fmt"

	"example.com/golfbuddy/internal/auth"
	appkafka "example.com/golfbuddy/internal/broker"
	config "example.com/golfbuddy/internal/init"
	"example.com/golfbuddy/internal/logger"
	"example.com/golfbuddy/internal/store"
	"github.com/redis/go-redis/v9"
)

var logg = logger.New("main")

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	st, err := store.New(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
	if err != nil {
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	return st, nil
}

// openBlocklist picks the revocation backend. The returned func releases it.
func openBlocklist(ctx context.Context, cfg *config.Config, st *store.Store) (auth.Blocklist, func(), error) {
	switch cfg.BlocklistBackend {
	case "", "postgres":
		return st, func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		logg.Info("Using Redis token blocklist")
		return auth.NewRedisBlocklist(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown blocklist backend: %s", cfg.BlocklistBackend)
	}
}

func kafkaConfig(cfg *config.Config) appkafka.KafkaConfig {
	return appkafka.KafkaConfig{
		Brokers:      []string{cfg.KafkaBroker},
		Topic:        cfg.KafkaTopic,
		Partition:    cfg.KafkaPartition,
		GroupID:      cfg.KafkaGroupID,
		WriteTimeout: cfg.KafkaWriteTO,
		ReadTimeout:  cfg.KafkaReadTO,
	}
}

// openWriter returns a no-op writer when no broker is configured.
func openWriter(cfg *config.Config) (appkafka.KafkaWriter, error) {
	if cfg.KafkaBroker == "" {
		logg.Info("No Kafka broker configured, activity events are dropped")
		return appkafka.NopWriter{}, nil
	}
	return appkafka.NewKafkaWriter(kafkaConfig(cfg))
}

func cassandraConfig(cfg *config.Config) store.CassandraConfig {
	return store.CassandraConfig{
		Host:     cfg.CassandraHost,
		Keyspace: cfg.CassandraKeyspace,
		Username: cfg.CassandraUsername,
		Password: cfg.CassandraPassword,
		Timeout:  cfg.CassandraTimeout,
		DC:       cfg.CassandraDC,
	}
}

func openNotifications(cfg *config.Config) (store.NotificationStore, error) {
	if cfg.CassandraHost == "" {
		logg.Info("No Cassandra host configured, notifications are disabled")
		return store.NopNotifications{}, nil
	}
	notes, err := store.NewNotifications(cassandraConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("cassandra connection failed: %w", err)
	}
	return notes, nil
}
