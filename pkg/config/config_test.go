//go:build !integration

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 20*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Inference.BreakerCooldown)
	assert.InDelta(t, 0.55, cfg.FAQ.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 3, cfg.FAQ.MaxSuggestions)
	assert.False(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Recommender.RetrainAfterSaving)
}

func TestLoad_MissingPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing database password")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad int", key: "REDIS_DB", val: "one"},
		{name: "bad float", key: "FAQ_CONFIDENCE_THRESHOLD", val: "high"},
		{name: "bad duration", key: "INFERENCE_TIMEOUT", val: "20"},
		{name: "bad bool", key: "FAQ_PERSIST_LEARNED", val: "maybe"},
		{name: "threshold out of range", key: "FAQ_CONFIDENCE_THRESHOLD", val: "1.5"},
		{name: "unknown driver", key: "DB_DRIVER", val: "sqlite"},
		{name: "negative breaker trips", key: "INFERENCE_BREAKER_TRIPS", val: "-1"},
		{name: "zero breaker trips", key: "INFERENCE_BREAKER_TRIPS", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_PASSWORD", "secret")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("INFERENCE_TIMEOUT", "5s")
	t.Setenv("FAQ_MAX_SUGGESTIONS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, 5, cfg.FAQ.MaxSuggestions)
}
