package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chronoslabs/chronos/resilience"
)

// Config holds cache store configuration.
type Config struct {
	// URL is the redis:// connection string.
	URL string `yaml:"url" mapstructure:"url"`

	// DialTimeout is the timeout for establishing new connections (e.g. "5s").
	DialTimeout string `yaml:"dial_timeout" mapstructure:"dial_timeout"`

	// ReadTimeout is the timeout for socket reads (e.g. "3s").
	ReadTimeout string `yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout is the timeout for socket writes (e.g. "3s").
	WriteTimeout string `yaml:"write_timeout" mapstructure:"write_timeout"`

	// ConnectRetry governs connection establishment. Exponential by default.
	ConnectRetry resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// OperationRetry governs individual cache commands.
	OperationRetry resilience.RetryConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "3s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
	if c.ConnectRetry.MaxAttempts == 0 {
		c.ConnectRetry = resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Second,
			BackoffFactor:  2.0,
			Strategy:       resilience.BackoffExponential,
		}
	}
	if c.OperationRetry.MaxAttempts == 0 {
		c.OperationRetry = resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: 500 * time.Millisecond,
			Strategy:       resilience.BackoffLinear,
		}
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("cache url is required")
	}
	if _, err := redis.ParseURL(c.URL); err != nil {
		return fmt.Errorf("invalid cache url: %w", err)
	}
	for name, val := range map[string]string{
		"dial_timeout":  c.DialTimeout,
		"read_timeout":  c.ReadTimeout,
		"write_timeout": c.WriteTimeout,
	} {
		if _, err := time.ParseDuration(val); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, val, err)
		}
	}
	return nil
}
