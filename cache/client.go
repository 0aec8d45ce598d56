package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chronoslabs/chronos/component"
	"github.com/chronoslabs/chronos/errors"
	"github.com/chronoslabs/chronos/logger"
	"github.com/chronoslabs/chronos/resilience"
)

// keyPrefix namespaces every Chronos cache key.
const keyPrefix = "chronos"

// Client manages the single live connection handle to the cache store.
// The handle is created lazily, probed with PING before reuse, and
// replaced under the configured retry policy when unhealthy. Probes of a
// healthy handle run concurrently; slot replacement is exclusive.
type Client struct {
	cfg Config
	log *logger.Logger

	mu  sync.RWMutex
	rdb *redis.Client

	// dial is replaceable in tests to count establishment attempts.
	dial func() *redis.Client
}

// New creates a cache client. No connection is made until first use.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if cfg.URL == "" {
		return nil, errors.Configuration("cache.url")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Configuration("cache.url").WithCause(err)
	}

	c := &Client{
		cfg: cfg,
		log: log.WithComponent("cache"),
	}
	c.dial = c.dialRedis
	return c, nil
}

func (c *Client) dialRedis() *redis.Client {
	opts, _ := redis.ParseURL(c.cfg.URL)
	opts.DialTimeout, _ = time.ParseDuration(c.cfg.DialTimeout)
	opts.ReadTimeout, _ = time.ParseDuration(c.cfg.ReadTimeout)
	opts.WriteTimeout, _ = time.ParseDuration(c.cfg.WriteTimeout)
	// The generic retry loop owns retries; disable the driver's own.
	opts.MaxRetries = -1
	return redis.NewClient(opts)
}

// Key builds a deterministic composite cache key from the operation kind
// and its parameters.
func Key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}

// Get reads and JSON-decodes the value for key into dest. It reports a
// miss on absent keys and on ANY underlying failure (connection, command,
// deserialization); failures are logged once per retry exhaustion and
// never propagated.
func (c *Client) Get(ctx context.Context, key string, dest any) bool {
	var raw string
	found := false

	err := c.execute(ctx, "GET", func(ctx context.Context, rdb *redis.Client) error {
		val, err := rdb.Get(ctx, key).Result()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		raw = val
		found = true
		return nil
	})
	if err != nil {
		c.log.Warn("Cache read failed, treating as miss", logger.Fields("key", key, "error", err.Error()))
		return false
	}
	if !found {
		return false
	}

	if err := unmarshal(raw, dest); err != nil {
		c.log.Warn("Cache value failed to decode, treating as miss", logger.Fields("key", key, "error", err.Error()))
		return false
	}
	return true
}

// Set JSON-encodes value and stores it under key with the given TTL.
// Best-effort: failures are logged and swallowed.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := marshal(value)
	if err != nil {
		c.log.Warn("Cache value failed to encode, skipping write", logger.Fields("key", key, "error", err.Error()))
		return
	}

	err = c.execute(ctx, "SET", func(ctx context.Context, rdb *redis.Client) error {
		return rdb.Set(ctx, key, data, ttl).Err()
	})
	if err != nil {
		c.log.Warn("Cache write failed", logger.Fields("key", key, "error", err.Error()))
	}
}

// execute runs one cache command through the acquire+execute retry cycle.
// Any failure invalidates the live handle so the next attempt reconnects.
func (c *Client) execute(ctx context.Context, op string, fn func(context.Context, *redis.Client) error) error {
	err := resilience.RetryFunc(ctx, c.cfg.OperationRetry, func() error {
		rdb, err := c.acquire(ctx)
		if err != nil {
			return err
		}
		if err := fn(ctx, rdb); err != nil {
			c.invalidate(rdb)
			return err
		}
		return nil
	})
	if err != nil {
		return errors.OperationFailed("cache store", op, err)
	}
	return nil
}

// acquire returns a healthy connection handle, reusing the existing one
// when its PING probe succeeds and otherwise replacing it under the
// connect retry policy.
func (c *Client) acquire(ctx context.Context) (*redis.Client, error) {
	c.mu.RLock()
	rdb := c.rdb
	c.mu.RUnlock()

	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err == nil {
			return rdb, nil
		}
		c.log.Warn("Existing cache connection is unhealthy, replacing")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have replaced the handle while we waited.
	if c.rdb != nil && c.rdb != rdb {
		if err := c.rdb.Ping(ctx).Err(); err == nil {
			return c.rdb, nil
		}
	}

	if c.rdb != nil {
		c.closeLocked()
	}

	fresh, err := resilience.Retry(ctx, c.cfg.ConnectRetry, func() (*redis.Client, error) {
		candidate := c.dial()
		if err := candidate.Ping(ctx).Err(); err != nil {
			_ = candidate.Close()
			return nil, err
		}
		return candidate, nil
	})
	if err != nil {
		// Slot stays empty, never a half-built handle.
		return nil, errors.ConnectionFailed("cache store", err)
	}

	c.rdb = fresh
	c.log.Info("Cache connection established")
	return fresh, nil
}

// invalidate closes and clears the slot if it still holds the given handle.
func (c *Client) invalidate(rdb *redis.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rdb == rdb && c.rdb != nil {
		c.closeLocked()
	}
}

// closeLocked closes the current handle best-effort. Caller must hold mu.
func (c *Client) closeLocked() {
	if err := c.rdb.Close(); err != nil {
		c.log.Warn("Error closing cache connection", logger.Fields("error", err.Error()))
	}
	c.rdb = nil
}

// --- component.Component ---

// Name returns the component name.
func (c *Client) Name() string { return "cache" }

// Stop closes the live connection handle if one exists.
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rdb != nil {
		c.closeLocked()
	}
	return nil
}

// Health probes the cache store.
func (c *Client) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	rdb := c.rdb
	c.mu.RUnlock()

	if rdb == nil {
		return component.Health{Name: c.Name(), Status: component.StatusDegraded, Message: "not connected"}
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
