package commands

import (
	"context"
	"testing"

	appkafka "example.com/golfbuddy/internal/broker"
	config "example.com/golfbuddy/internal/init"
	"example.com/golfbuddy/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWriter_NoBroker(t *testing.T) {
	w, err := openWriter(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, appkafka.NopWriter{}, w)
}

func TestOpenNotifications_NoHost(t *testing.T) {
	notes, err := openNotifications(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, store.NopNotifications{}, notes)
}

func TestOpenBlocklist(t *testing.T) {
	st := &store.Store{}
	bl, release, err := openBlocklist(context.Background(), &config.Config{BlocklistBackend: "postgres"}, st)
	require.NoError(t, err)
	assert.Same(t, st, bl)
	release()

	_, _, err = openBlocklist(context.Background(), &config.Config{BlocklistBackend: "memcached"}, st)
	assert.Error(t, err)
}

func TestKafkaConfig(t *testing.T) {
	kc := kafkaConfig(&config.Config{KafkaBroker: "kafka:9092", KafkaTopic: "t", KafkaGroupID: "g"})
	assert.Equal(t, []string{"kafka:9092"}, kc.Brokers)
	assert.Equal(t, "t", kc.Topic)
	assert.Equal(t, "g", kc.GroupID)
}

func TestRootHasSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"server", "worker", "migrate", "prune-tokens"})
}
