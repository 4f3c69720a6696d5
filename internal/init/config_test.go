package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DefaultsAndEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("KAFKA_BROKER", "kafka:9092")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	c := Init(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, ":8080", c.ServerAddr)
	assert.Equal(t, "kafka:9092", c.KafkaBroker)
	assert.Equal(t, 30*time.Minute, c.TokenTTL)
	assert.Equal(t, "postgres", c.BlocklistBackend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins)
	assert.Equal(t, 10*time.Second, c.CassandraTimeout)
	assert.Same(t, c, Get())
}

func TestInit_ConfigFile(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("BLOCKLIST_BACKEND: Redis\nTOKEN_TTL: nonsense\n"), 0o600))

	c := Init(path)

	assert.Equal(t, "redis", c.BlocklistBackend)
	assert.Equal(t, time.Hour, c.TokenTTL)
}
