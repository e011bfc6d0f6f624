package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "DB_PATH", "KAFKA_BROKERS", "KAFKA_TOPIC", "SESSION_TTL_HOURS", "PUBLIC_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "./data/storefront.db", cfg.DBPath)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "storefront.orders", cfg.KafkaTopic)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SESSION_TTL_HOURS", "12")
	t.Setenv("PUBLIC_BASE_URL", "https://shops.example.ph/")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "https://shops.example.ph", cfg.PublicBaseURL)
}

func TestFromEnv_InvalidSessionTTL(t *testing.T) {
	for _, v := range []string{"abc", "-5", "0"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("SESSION_TTL_HOURS", v)
			_, err := FromEnv()
			assert.ErrorContains(t, err, "SESSION_TTL_HOURS")
		})
	}
}
