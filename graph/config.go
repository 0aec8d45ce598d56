package graph

import (
	"fmt"
	"time"

	"github.com/chronoslabs/chronos/resilience"
)

// Config holds graph store configuration.
type Config struct {
	// URI is the bolt/neo4j connection URI (e.g. "neo4j+s://host").
	URI string `yaml:"uri" mapstructure:"uri"`

	// Username authenticates against the graph store.
	Username string `yaml:"username" mapstructure:"username"`

	// Password authenticates against the graph store.
	Password string `yaml:"password" mapstructure:"password"`

	// Database selects the target database. Empty uses the server default.
	Database string `yaml:"database" mapstructure:"database"`

	// ConnectTimeout bounds a single connection attempt.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// MaxConnectionPoolSize caps the driver's internal pool.
	MaxConnectionPoolSize int `yaml:"max_pool_size" mapstructure:"max_pool_size"`

	// MaxConnectionLifetime recycles pooled connections after this age.
	MaxConnectionLifetime time.Duration `yaml:"max_conn_lifetime" mapstructure:"max_conn_lifetime"`

	// ConnectRetry governs handle establishment. Exponential by default.
	ConnectRetry resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// QueryRetry governs the acquire+execute cycle per query. Linear by
	// default, scaled by attempt number.
	QueryRetry resilience.RetryConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Username == "" {
		c.Username = "neo4j"
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.MaxConnectionPoolSize <= 0 {
		c.MaxConnectionPoolSize = 10
	}
	if c.MaxConnectionLifetime <= 0 {
		c.MaxConnectionLifetime = time.Hour
	}
	if c.ConnectRetry.MaxAttempts == 0 {
		c.ConnectRetry = resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Second,
			BackoffFactor:  2.0,
			Strategy:       resilience.BackoffExponential,
		}
	}
	if c.QueryRetry.MaxAttempts == 0 {
		c.QueryRetry = resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: 500 * time.Millisecond,
			Strategy:       resilience.BackoffLinear,
		}
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("graph uri is required")
	}
	if c.Password == "" {
		return fmt.Errorf("graph password is required")
	}
	return nil
}
