package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

func TestLoad(t *testing.T) {
	t.Run("Defaults are applied", func(t *testing.T) {
		t.Setenv("JWT_SECRET", testSecret)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "Moim", cfg.AppName)
		assert.Equal(t, "memory", cfg.Storage)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 4, cfg.GraphWorkers)
		assert.Equal(t, 120, cfg.RateLimitPerMinute)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", testSecret)
		t.Setenv("APP_NAME", "Moim Beta")
		t.Setenv("APP_ENV", "production")
		t.Setenv("GRAPH_WORKERS", "8")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "Moim Beta", cfg.AppName)
		assert.Equal(t, 8, cfg.GraphWorkers)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("Malformed integers fall back to defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", testSecret)
		t.Setenv("RATE_LIMIT_BURST", "many")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.RateLimitBurst)
	})
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		message string
	}{
		{
			name:    "Missing JWT_SECRET",
			envVars: map[string]string{},
			message: "JWT_SECRET is required",
		},
		{
			name:    "Short JWT_SECRET",
			envVars: map[string]string{"JWT_SECRET": "short"},
			message: "at least 16 characters",
		},
		{
			name:    "Unknown storage",
			envVars: map[string]string{"JWT_SECRET": testSecret, "STORAGE": "redis"},
			message: "unknown STORAGE",
		},
		{
			name:    "Non-positive graph workers",
			envVars: map[string]string{"JWT_SECRET": testSecret, "GRAPH_WORKERS": "0"},
			message: "GRAPH_WORKERS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestConfig_GetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "moim",
		DBPassword: "secret",
		DBName:     "moim_test",
		DBSSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=moim password=secret dbname=moim_test sslmode=disable", cfg.GetDSN())
}
