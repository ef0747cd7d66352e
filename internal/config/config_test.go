// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "Qwen/Qwen3-VL-30B-A3B-Instruct", cfg.LLM.Model)
	assert.Equal(t, "EMPTY", cfg.LLM.APIKey)
	assert.Equal(t, "http://localhost:8000/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 600*time.Second, cfg.LLM.RequestTimeout)
	assert.Equal(t, 0.0, cfg.LLM.Temperature)

	assert.Equal(t, "Open a browser and search for the weather.", cfg.Agent.Task)
	assert.Equal(t, 200, cfg.Agent.MaxTurns)

	assert.Equal(t, "./screenshots", cfg.Screenshot.Dir)
	assert.Equal(t, 1, cfg.Screenshot.MonitorIndex)

	assert.Equal(t, time.Duration(0), cfg.Input.MouseMoveDuration)
	assert.Equal(t, 150*time.Millisecond, cfg.Input.DragDuration)
	assert.Equal(t, 10*time.Millisecond, cfg.Input.TypeInterval)

	assert.Equal(t, "deskpilot", cfg.Logger.ServiceName)
	assert.Equal(t, "info", cfg.Logger.Level)

	require.NoError(t, cfg.Validate(), "defaults must validate")
}

func TestNewConfigFromViper(t *testing.T) {
	t.Run("applies overrides on top of defaults", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("llm.model", "my-model")
		v.Set("llm.request_timeout", "30s")
		v.Set("agent.max_turns", 10)
		v.Set("screenshot.monitor_index", 0)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "my-model", cfg.LLM.Model)
		assert.Equal(t, 30*time.Second, cfg.LLM.RequestTimeout)
		assert.Equal(t, 10, cfg.Agent.MaxTurns)
		assert.Equal(t, 0, cfg.Screenshot.MonitorIndex)
		// Untouched keys keep their defaults.
		assert.Equal(t, "http://localhost:8000/v1", cfg.LLM.BaseURL)
	})

	t.Run("rejects invalid overrides", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("agent.max_turns", 0)

		_, err := NewConfigFromViper(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_turns")
	})
}

func TestValidate(t *testing.T) {
	mutate := func(f func(*Config)) *Config {
		cfg := NewDefaultConfig()
		f(cfg)
		return cfg
	}

	cases := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{"missing model", mutate(func(c *Config) { c.LLM.Model = "" }), "llm.model"},
		{"missing base url", mutate(func(c *Config) { c.LLM.BaseURL = "" }), "llm.base_url"},
		{"zero timeout", mutate(func(c *Config) { c.LLM.RequestTimeout = 0 }), "request_timeout"},
		{"temperature too high", mutate(func(c *Config) { c.LLM.Temperature = 2.5 }), "temperature"},
		{"negative temperature", mutate(func(c *Config) { c.LLM.Temperature = -0.1 }), "temperature"},
		{"zero max turns", mutate(func(c *Config) { c.Agent.MaxTurns = 0 }), "max_turns"},
		{"missing screenshot dir", mutate(func(c *Config) { c.Screenshot.Dir = "" }), "screenshot.dir"},
		{"negative monitor index", mutate(func(c *Config) { c.Screenshot.MonitorIndex = -1 }), "monitor_index"},
		{"negative drag duration", mutate(func(c *Config) { c.Input.DragDuration = -time.Second }), "durations"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("monitor index zero is legal", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Screenshot.MonitorIndex = 0
		require.NoError(t, cfg.Validate())
	})
}
