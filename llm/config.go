package llm

import (
	"time"

	"github.com/chronoslabs/chronos/resilience"
)

// Config holds completion API client configuration.
type Config struct {
	// APIURL is the full chat-completions endpoint URL. Required.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`
	// APIKey authenticates requests via bearer token. Required.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// Model names the completion model.
	Model string `mapstructure:"model" yaml:"model"`
	// Temperature controls sampling randomness.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	// MaxTokens caps the completion length.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`
	// AttemptTimeout bounds each individual API call.
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout" yaml:"attempt_timeout"`
	// Retry governs the generation retry loop.
	Retry resilience.RetryConfig `mapstructure:"retry" yaml:"retry"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = "grok-1"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 300
	}
	if c.AttemptTimeout == 0 {
		c.AttemptTimeout = 30 * time.Second
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: 2 * time.Second,
			Strategy:       resilience.BackoffLinear,
		}
	}
}
