// Package graph provides the Neo4j-backed graph store client. It owns the
// single live driver handle for the process: the handle is created lazily,
// probed for liveness before reuse, and replaced under a bounded
// exponential-backoff policy when unhealthy. Query execution retries the
// full acquire+execute cycle, since a stale connection is the most common
// failure cause. An empty result set is a success, never a retryable
// error.
package graph
