package ratelimit

import (
	"context"
	"time"
)

// Decision is the result of one check-and-consume round trip. It is
// never persisted beyond the response.
type Decision struct {
	Allowed   bool
	Remaining float64
}

// BucketState is a point-in-time view of a bucket, for ops inspection.
type BucketState struct {
	Tokens     float64   `json:"tokens"`
	LastRefill time.Time `json:"last_refill"`
	Exists     bool      `json:"exists"`
}

// Limiter checks and consumes tokens for an identity key. CheckAndConsume
// never fails from the caller's point of view: store failures are folded
// into the decision per the fail-open policy.
type Limiter interface {
	CheckAndConsume(ctx context.Context, key string, requested int) Decision
	Inspect(ctx context.Context, key string) (BucketState, error)
	Reset(ctx context.Context, key string) error
}

// Config holds static bucket parameters for a deployment.
type Config struct {
	// Capacity bounds burst size.
	Capacity int
	// TokensPerSecond bounds sustained throughput.
	TokensPerSecond float64
	// StoreTimeout bounds the shared-store round trip; an overrun counts
	// as a store failure, not as pending.
	StoreTimeout time.Duration
}
