package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryContentionAdmitsExactlyCapacity(t *testing.T) {
	l := NewMemoryLimiter(Config{Capacity: 10, TokensPerSecond: 0.0001})
	defer l.Stop()

	const n = 50
	var allowed int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if l.CheckAndConsume(context.Background(), "ip:1.2.3.4", 1).Allowed {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Fatalf("allowed = %d, want exactly capacity", allowed)
	}
}

func TestMemoryRefillNeverExceedsCapacity(t *testing.T) {
	l := NewMemoryLimiter(Config{Capacity: 5, TokensPerSecond: 1000})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		l.CheckAndConsume(context.Background(), "user:42", 1)
	}
	// Long idle relative to the refill rate; the bucket must cap out.
	time.Sleep(50 * time.Millisecond)

	state, err := l.Inspect(context.Background(), "user:42")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !state.Exists {
		t.Fatal("bucket should exist")
	}
	if state.Tokens > 5 {
		t.Fatalf("tokens = %v exceeds capacity", state.Tokens)
	}

	dec := l.CheckAndConsume(context.Background(), "user:42", 1)
	if !dec.Allowed {
		t.Fatal("refilled bucket should admit")
	}
	if dec.Remaining > 5 {
		t.Fatalf("remaining = %v exceeds capacity", dec.Remaining)
	}
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(Config{Capacity: 1, TokensPerSecond: 0.0001})
	defer l.Stop()

	if !l.CheckAndConsume(context.Background(), "ip:1.1.1.1", 1).Allowed {
		t.Fatal("first key should admit")
	}
	if l.CheckAndConsume(context.Background(), "ip:1.1.1.1", 1).Allowed {
		t.Fatal("first key should be exhausted")
	}
	if !l.CheckAndConsume(context.Background(), "ip:2.2.2.2", 1).Allowed {
		t.Fatal("second key should be unaffected")
	}
}

func TestMemoryReset(t *testing.T) {
	l := NewMemoryLimiter(Config{Capacity: 1, TokensPerSecond: 0.0001})
	defer l.Stop()

	l.CheckAndConsume(context.Background(), "user:7", 1)
	if l.CheckAndConsume(context.Background(), "user:7", 1).Allowed {
		t.Fatal("should be exhausted")
	}

	if err := l.Reset(context.Background(), "user:7"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !l.CheckAndConsume(context.Background(), "user:7", 1).Allowed {
		t.Fatal("reset bucket should admit")
	}
}
