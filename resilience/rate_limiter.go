package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures a rate limiter.
type RateLimiterConfig struct {
	// Name identifies this rate limiter for logging.
	Name string
	// Rate is the number of requests allowed per second.
	Rate float64
	// Burst is the maximum burst size.
	Burst int
}

// RateLimiter implements a token bucket rate limiter. Chronos uses it to
// honor the PubMed E-utilities request budget: each protocol phase takes
// exactly one Wait before issuing its request.
type RateLimiter struct {
	config RateLimiterConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 3.0
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}

	return &RateLimiter{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// Allow checks if a request is allowed without blocking.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a request is allowed or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.Allow() {
		return nil
	}

	waitTime := rl.reserve()
	if waitTime <= 0 {
		return nil
	}

	timer := time.NewTimer(waitTime)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// refill adds tokens based on elapsed time. Caller must hold mu.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.lastRefill = now

	rl.tokens += elapsed * rl.config.Rate
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// reserve consumes one token, going negative if needed, and returns how
// long the caller must wait before proceeding.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.tokens >= 1 {
		rl.tokens--
		return 0
	}

	needed := 1 - rl.tokens
	rl.tokens--
	return time.Duration(needed / rl.config.Rate * float64(time.Second))
}

// Rate returns the configured rate (requests per second).
func (rl *RateLimiter) Rate() float64 { return rl.config.Rate }

// Burst returns the configured burst size.
func (rl *RateLimiter) Burst() int { return rl.config.Burst }
