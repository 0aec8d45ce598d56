package graph

import (
	"context"
	"sync"

	"github.com/chronoslabs/chronos/component"
	"github.com/chronoslabs/chronos/errors"
	"github.com/chronoslabs/chronos/logger"
	"github.com/chronoslabs/chronos/resilience"
)

// Client manages the single live graph store handle and executes queries
// against it with the full acquire+execute cycle retried on failure.
type Client struct {
	cfg Config
	log *logger.Logger

	mu   sync.RWMutex
	conn conn

	// dial is replaceable in tests to count establishment attempts.
	dial func(ctx context.Context) (conn, error)
}

// New creates a graph client. Required configuration is validated here,
// before any connection attempt, so a missing URI or password fails
// immediately without consuming a retry attempt.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if cfg.URI == "" {
		return nil, errors.Configuration("graph.uri")
	}
	if cfg.Password == "" {
		return nil, errors.Configuration("graph.password")
	}

	c := &Client{
		cfg: cfg,
		log: log.WithComponent("graph"),
	}
	c.dial = func(ctx context.Context) (conn, error) {
		return dialNeo4j(ctx, c.cfg)
	}
	return c, nil
}

// Acquire returns a healthy connection handle. An existing handle is
// probed and reused when healthy; otherwise it is closed best-effort and
// replaced under the connect retry policy. On exhaustion the slot is left
// empty and a connection error carrying the last cause is returned.
func (c *Client) Acquire(ctx context.Context) (conn, error) {
	c.mu.RLock()
	existing := c.conn
	c.mu.RUnlock()

	if existing != nil {
		if err := existing.Verify(ctx); err == nil {
			return existing, nil
		}
		c.log.Warn("Existing graph connection is unhealthy, replacing")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have replaced the handle while we waited.
	if c.conn != nil && c.conn != existing {
		if err := c.conn.Verify(ctx); err == nil {
			return c.conn, nil
		}
	}

	if c.conn != nil {
		c.closeLocked(ctx)
	}

	attempt := 0
	fresh, err := resilience.Retry(ctx, c.cfg.ConnectRetry, func() (conn, error) {
		attempt++
		c.log.Info("Attempting graph store connection", logger.Fields(logger.FieldAttempt, attempt))
		return c.dial(ctx)
	})
	if err != nil {
		c.log.Error("Failed to connect to graph store", logger.ErrorFields("acquire", err))
		return nil, errors.ConnectionFailed("graph store", err)
	}

	c.conn = fresh
	c.log.Info("Graph store connection established", logger.Fields(logger.FieldAttempt, attempt))
	return fresh, nil
}

// Execute runs one parameterized query through the acquire+execute cycle.
// Each failed attempt invalidates the live handle so the next attempt
// reconnects. Zero records is a successful empty result, never an error.
func (c *Client) Execute(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	records, err := resilience.Retry(ctx, c.cfg.QueryRetry, func() ([]Record, error) {
		h, err := c.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		recs, err := h.Run(ctx, cypher, params)
		if err != nil {
			c.invalidate(ctx, h)
			return nil, err
		}
		return recs, nil
	})
	if err != nil {
		return nil, errors.OperationFailed("graph store", "query", err)
	}
	return records, nil
}

// invalidate closes and clears the slot if it still holds the given handle.
func (c *Client) invalidate(ctx context.Context, h conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == h && c.conn != nil {
		c.closeLocked(ctx)
	}
}

// closeLocked closes the current handle best-effort; a close failure must
// never prevent a retry. Caller must hold mu.
func (c *Client) closeLocked(ctx context.Context) {
	if err := c.conn.Close(ctx); err != nil {
		c.log.Warn("Error closing graph connection", logger.Fields("error", err.Error()))
	}
	c.conn = nil
}

// --- component.Component ---

// Name returns the component name.
func (c *Client) Name() string { return "graph" }

// Stop closes the live connection handle if one exists.
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.closeLocked(ctx)
	}
	return nil
}

// Health probes the graph store.
func (c *Client) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	h := c.conn
	c.mu.RUnlock()

	if h == nil {
		return component.Health{Name: c.Name(), Status: component.StatusDegraded, Message: "not connected"}
	}
	if err := h.Verify(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
