// Package ratelimit implements fixed-window admission control keyed by an
// arbitrary string, in practice the client IP. The window resets at fixed
// boundaries, so bursts straddling a boundary can briefly exceed the nominal
// rate by up to 2x; that is an accepted property of the algorithm.
package ratelimit

import (
	"context"
	"time"
)

// Result is one admission verdict
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Store decides whether a keyed request is admitted within the current
// window. Implementations must be safe for concurrent use.
type Store interface {
	Allow(ctx context.Context, key string) (Result, error)
}
