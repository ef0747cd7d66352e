// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	LLM        LLMConfig        `mapstructure:"llm" yaml:"llm"`
	Agent      AgentConfig      `mapstructure:"agent" yaml:"agent"`
	Screenshot ScreenshotConfig `mapstructure:"screenshot" yaml:"screenshot"`
	Input      InputConfig      `mapstructure:"input" yaml:"input"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// LLMConfig describes the chat-completions endpoint that steers the agent.
type LLMConfig struct {
	Model          string        `mapstructure:"model" yaml:"model"`
	APIKey         string        `mapstructure:"api_key" yaml:"-"`
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	Temperature    float64       `mapstructure:"temperature" yaml:"temperature"`
}

// AgentConfig bounds one run of the conversation loop.
type AgentConfig struct {
	Task     string `mapstructure:"task" yaml:"task"`
	MaxTurns int    `mapstructure:"max_turns" yaml:"max_turns"`
}

// ScreenshotConfig locates the capture output. MonitorIndex is 1-based;
// index 0 means all displays combined and is deliberately not the default.
type ScreenshotConfig struct {
	Dir          string `mapstructure:"dir" yaml:"dir"`
	MonitorIndex int    `mapstructure:"monitor_index" yaml:"monitor_index"`
}

// InputConfig tunes the timing of injected input events.
type InputConfig struct {
	MouseMoveDuration time.Duration `mapstructure:"mouse_move_duration" yaml:"mouse_move_duration"`
	DragDuration      time.Duration `mapstructure:"drag_duration" yaml:"drag_duration"`
	TypeInterval      time.Duration `mapstructure:"type_interval" yaml:"type_interval"`
}

// SetDefaults initializes default values for every configuration parameter.
// The domain defaults match the tool's documented behavior: a local
// OpenAI-compatible endpoint, generous turn budget, deterministic sampling.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "deskpilot")
	v.SetDefault("logger.log_file", "deskpilot.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- LLM --
	v.SetDefault("llm.model", "Qwen/Qwen3-VL-30B-A3B-Instruct")
	v.SetDefault("llm.api_key", "EMPTY")
	v.SetDefault("llm.base_url", "http://localhost:8000/v1")
	v.SetDefault("llm.request_timeout", "600s")
	v.SetDefault("llm.temperature", 0.0)

	// -- Agent --
	v.SetDefault("agent.task", "Open a browser and search for the weather.")
	v.SetDefault("agent.max_turns", 200)

	// -- Screenshot --
	v.SetDefault("screenshot.dir", "./screenshots")
	v.SetDefault("screenshot.monitor_index", 1)

	// -- Input --
	v.SetDefault("input.mouse_move_duration", "0s")
	v.SetDefault("input.drag_duration", "150ms")
	v.SetDefault("input.type_interval", "10ms")
}

// NewDefaultConfig creates a configuration struct populated with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is a required configuration field")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is a required configuration field")
	}
	if c.LLM.RequestTimeout <= 0 {
		return fmt.Errorf("llm.request_timeout must be a positive duration")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0.0 and 2.0")
	}
	if c.Agent.MaxTurns <= 0 {
		return fmt.Errorf("agent.max_turns must be a positive integer")
	}
	if c.Screenshot.Dir == "" {
		return fmt.Errorf("screenshot.dir is a required configuration field")
	}
	if c.Screenshot.MonitorIndex < 0 {
		return fmt.Errorf("screenshot.monitor_index must not be negative")
	}
	if c.Input.DragDuration < 0 || c.Input.MouseMoveDuration < 0 || c.Input.TypeInterval < 0 {
		return fmt.Errorf("input durations must not be negative")
	}
	return nil
}
