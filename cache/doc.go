// Package cache provides the Redis-backed cache-aside layer. A single live
// connection handle per process is lazily created, probed with PING before
// reuse, and replaced with bounded exponential-backoff retries when
// unhealthy. Cache failures are never surfaced to callers: a broken cache
// degrades to miss behavior with a logged warning, because the cache is
// strictly an optimization in front of the rate-limited PubMed API.
package cache
