package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter keeps per-key token buckets in process memory. It is only
// correct for single-instance deployments; multi-instance gateways must
// use the Redis store. Idle buckets are evicted by a janitor on the same
// 120s inactivity window the shared store uses.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	cfg     Config
	idleTTL time.Duration
	stopCh  chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter creates an in-memory limiter and starts its janitor.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]*memoryEntry),
		cfg:     cfg,
		idleTTL: bucketTTL,
		stopCh:  make(chan struct{}),
	}
	go l.janitor(30 * time.Second)
	return l
}

// CheckAndConsume consumes requested tokens for key. Never fails.
func (l *MemoryLimiter) CheckAndConsume(_ context.Context, key string, requested int) Decision {
	if requested < 1 {
		requested = 1
	}

	ent := l.entry(key)
	now := time.Now()
	allowed := ent.lim.AllowN(now, requested)
	remaining := ent.lim.Tokens()
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: allowed, Remaining: remaining}
}

// Inspect returns the current bucket view for key.
func (l *MemoryLimiter) Inspect(_ context.Context, key string) (BucketState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ent, ok := l.entries[key]
	if !ok {
		return BucketState{}, nil
	}
	tokens := ent.lim.Tokens()
	if tokens < 0 {
		tokens = 0
	}
	return BucketState{
		Tokens:     tokens,
		LastRefill: ent.lastSeen,
		Exists:     true,
	}, nil
}

// Reset drops the bucket for key; the next check sees a full bucket.
func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.entries, key)
	l.mu.Unlock()
	return nil
}

// Stop terminates the janitor.
func (l *MemoryLimiter) Stop() {
	l.once.Do(func() { close(l.stopCh) })
}

func (l *MemoryLimiter) entry(key string) *memoryEntry {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if ent, ok := l.entries[key]; ok {
		ent.lastSeen = now
		return ent
	}

	ent := &memoryEntry{
		lim:      rate.NewLimiter(rate.Limit(l.cfg.TokensPerSecond), l.cfg.Capacity),
		lastSeen: now,
	}
	l.entries[key] = ent
	return ent
}

func (l *MemoryLimiter) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case <-t.C:
			cutoff := time.Now().Add(-l.idleTTL)
			l.mu.Lock()
			for k, ent := range l.entries {
				if ent.lastSeen.Before(cutoff) {
					delete(l.entries, k)
				}
			}
			l.mu.Unlock()
		}
	}
}
