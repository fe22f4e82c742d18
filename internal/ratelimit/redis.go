package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/repository"
	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rate_limit:"

// bucketTTL is the inactivity window after which a bucket record expires.
// Expiry is indistinguishable from a full bucket, which is the intended
// default. Mirrored in the Lua script.
const bucketTTL = 120 * time.Second

// Store is the slice of the Redis client the limiter needs. *redis.Client
// satisfies it; tests substitute fakes.
type Store interface {
	redis.Scripter
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLimiter is a distributed token bucket backed by a shared Redis
// store. All mutable bucket state lives in Redis; the limiter itself
// caches nothing, so correctness holds across gateway instances.
type RedisLimiter struct {
	store   Store
	cfg     Config
	logger  *applogger.Logger
	metrics repository.Metrics
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(store Store, cfg Config, l *applogger.Logger, m repository.Metrics) *RedisLimiter {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 200 * time.Millisecond
	}
	if m == nil {
		m = repository.NoopMetrics{}
	}
	return &RedisLimiter{store: store, cfg: cfg, logger: l, metrics: m}
}

// CheckAndConsume atomically refills and consumes tokens for key.
//
// On a store communication failure the request is admitted with zero
// reported remaining tokens: a degraded shared store must not become a
// global outage. The failure is logged and counted, never retried inline.
// A reply of the wrong shape is instead a conservative rejection; that
// smells like a protocol or version mismatch rather than an outage.
func (l *RedisLimiter) CheckAndConsume(ctx context.Context, key string, requested int) Decision {
	if requested < 1 {
		requested = 1
	}

	ctx, cancel := context.WithTimeout(ctx, l.cfg.StoreTimeout)
	defer cancel()

	now := time.Now().Unix()
	start := time.Now()
	reply, err := tokenBucketScript.Run(ctx, l.store, []string{keyPrefix + key},
		l.cfg.Capacity,
		l.cfg.TokensPerSecond,
		requested,
		now,
	).Result()
	l.metrics.RecordStoreLatency(time.Since(start).Seconds())

	if err != nil {
		if l.logger != nil {
			l.logger.Error("rate limit store unavailable, failing open",
				applogger.String("key", key),
				applogger.Error(err),
			)
		}
		l.metrics.RecordFailOpen()
		return Decision{Allowed: true, Remaining: 0}
	}

	dec, ok := parseReply(reply)
	if !ok {
		if l.logger != nil {
			l.logger.Warn("unexpected rate limit script reply",
				applogger.String("key", key),
				applogger.Any("reply", reply),
			)
		}
		return Decision{Allowed: false, Remaining: 0}
	}
	return dec
}

// Inspect returns the raw bucket record for an identity key.
func (l *RedisLimiter) Inspect(ctx context.Context, key string) (BucketState, error) {
	vals, err := l.store.HMGet(ctx, keyPrefix+key, "tokens", "last_refill").Result()
	if err != nil {
		return BucketState{}, err
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return BucketState{}, nil
	}

	tokens, ok := toFloat(vals[0])
	if !ok {
		return BucketState{}, nil
	}
	lastRefill, ok := toFloat(vals[1])
	if !ok {
		return BucketState{}, nil
	}

	return BucketState{
		Tokens:     tokens,
		LastRefill: time.Unix(int64(lastRefill), 0),
		Exists:     true,
	}, nil
}

// Reset deletes the bucket record; the next check sees a full bucket.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.store.Del(ctx, keyPrefix+key).Err()
}

func parseReply(reply interface{}) (Decision, bool) {
	vals, ok := reply.([]interface{})
	if !ok || len(vals) < 2 {
		return Decision{}, false
	}

	allowed, ok := vals[0].(int64)
	if !ok {
		return Decision{}, false
	}
	remaining, ok := toFloat(vals[1])
	if !ok {
		return Decision{}, false
	}

	return Decision{Allowed: allowed == 1, Remaining: remaining}, true
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
