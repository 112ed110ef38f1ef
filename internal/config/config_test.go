package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тесты для LoadConfig
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "https://egrul.itsoft.ru", cfg.RegistryBaseURL)
	assert.Equal(t, "https://orginfo.uz", cfg.OrgInfoBaseURL)
	assert.Equal(t, 5, cfg.MaxOwnershipDepth)
	assert.Equal(t, 30*time.Second, cfg.SDNTimeout)
	assert.Equal(t, time.Second, cfg.SDNFetchDelay)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("MAX_OWNERSHIP_DEPTH", "3")
	t.Setenv("SDN_TIMEOUT", "10s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 3, cfg.MaxOwnershipDepth)
	assert.Equal(t, 10*time.Second, cfg.SDNTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	// Неразборчивые значения заменяются значениями по умолчанию
	t.Setenv("MAX_OWNERSHIP_DEPTH", "not-a-number")
	t.Setenv("SDN_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxOwnershipDepth)
	assert.Equal(t, 30*time.Second, cfg.SDNTimeout)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "99999")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port must be between")
}

// Тесты для Validate
func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty port", func(c *Config) { c.Port = "" }, "port is required"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
		{"zero depth", func(c *Config) { c.MaxOwnershipDepth = 0 }, "max ownership depth"},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }, "jwt secret is required"},
		{"short timeout", func(c *Config) { c.SDNTimeout = time.Millisecond }, "sdn timeout"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig()
			require.NoError(t, err)

			tc.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
