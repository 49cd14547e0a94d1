package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port      int    `env:"TEST_CFG_PORT" envDefault:"8080"`
	RedisAddr string `env:"TEST_CFG_REDIS_ADDR" envDefault:"localhost:6379"`
	LogLevel  string `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	DemoMode  bool   `env:"TEST_CFG_DEMO_MODE" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DemoMode)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_REDIS_ADDR", "redis:6380")
	t.Setenv("TEST_CFG_LOG_LEVEL", "debug")
	t.Setenv("TEST_CFG_DEMO_MODE", "true")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DemoMode)
}

type requiredConfig struct {
	StoreDomain string `env:"TEST_CFG_STORE_DOMAIN,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_RequiredFieldPresent(t *testing.T) {
	t.Setenv("TEST_CFG_STORE_DOMAIN", "shop.example.com")

	var cfg requiredConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "shop.example.com", cfg.StoreDomain)
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
