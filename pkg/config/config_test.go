package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port        int           `env:"TEST_CFG_PORT" envDefault:"5000"`
	LogLevel    string        `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	RateLimited bool          `env:"TEST_CFG_RATE_LIMITED" envDefault:"false"`
	Window      time.Duration `env:"TEST_CFG_WINDOW" envDefault:"15m"`
	Origins     []string      `env:"TEST_CFG_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RateLimited)
	assert.Equal(t, 15*time.Minute, cfg.Window)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Origins)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_LOG_LEVEL", "debug")
	t.Setenv("TEST_CFG_RATE_LIMITED", "true")
	t.Setenv("TEST_CFG_WINDOW", "30s")
	t.Setenv("TEST_CFG_ORIGINS", "https://a.example,https://b.example")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.RateLimited)
	assert.Equal(t, 30*time.Second, cfg.Window)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
}

type requiredConfig struct {
	Secret string `env:"TEST_CFG_SECRET,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

type secretsConfig struct {
	Access  string `env:"TEST_CFG_ACCESS" envDefault:"same"`
	Refresh string `env:"TEST_CFG_REFRESH" envDefault:"same"`
}

var errSameSecrets = errors.New("secrets must differ")

func (c *secretsConfig) Validate() error {
	if c.Access == c.Refresh {
		return errSameSecrets
	}
	return nil
}

func TestLoad_RunsValidator(t *testing.T) {
	var cfg secretsConfig
	err := Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errSameSecrets)
	assert.Contains(t, err.Error(), "validate config")

	t.Setenv("TEST_CFG_REFRESH", "other")
	var ok secretsConfig
	assert.NoError(t, Load(&ok))
}
