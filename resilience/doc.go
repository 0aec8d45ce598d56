// Package resilience provides the retry-with-backoff and request-pacing
// primitives shared by every external client in Chronos. Each client
// (graph store, cache store, PubMed, completion API) supplies only its own
// request or probe logic and a RetryConfig; the bounded-attempt loop,
// backoff strategy, and context handling live here exactly once.
package resilience
