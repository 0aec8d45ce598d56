package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Record is one row of a query result, keyed by return alias.
type Record map[string]any

// conn is one live connection handle to the graph store. The production
// implementation wraps a Neo4j driver; tests substitute a fake to count
// establishment attempts and inject failures.
type conn interface {
	// Verify probes liveness with a trivial round trip.
	Verify(ctx context.Context) error
	// Run executes one parameterized query and collects the full result.
	Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error)
	// Close releases the underlying transport.
	Close(ctx context.Context) error
}

// neo4jConn adapts neo4j.DriverWithContext to the conn interface.
type neo4jConn struct {
	driver   neo4j.DriverWithContext
	database string
}

// dialNeo4j establishes and verifies a new driver handle.
func dialNeo4j(ctx context.Context, cfg Config) (conn, error) {
	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
		c.MaxConnectionLifetime = cfg.MaxConnectionLifetime
		c.ConnectionAcquisitionTimeout = cfg.ConnectTimeout
		// Encryption is controlled by the URI scheme (neo4j:// vs neo4j+s://).
	})
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}

	return &neo4jConn{driver: driver, database: cfg.Database}, nil
}

func (c *neo4jConn) Verify(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *neo4jConn) Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	raw, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		rec := make(Record, len(r.Keys))
		for i, key := range r.Keys {
			rec[key] = convertValue(r.Values[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *neo4jConn) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// convertValue unwraps graph entities into plain maps so callers never
// depend on driver types.
func convertValue(v any) any {
	switch val := v.(type) {
	case dbtype.Node:
		return val.Props
	case dbtype.Relationship:
		return val.Props
	default:
		return v
	}
}
