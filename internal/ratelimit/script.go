package ratelimit

import "github.com/redis/go-redis/v9"

// tokenBucketScript refills and consumes in one server-side step so that
// concurrent callers on the same key can never observe an intermediate
// state. Absence of the key reads as a full bucket, which is also what
// the inactivity TTL produces.
//
// KEYS[1] = bucket key (hash: tokens, last_refill)
// ARGV[1] = capacity
// ARGV[2] = tokens per second
// ARGV[3] = requested tokens
// ARGV[4] = now (unix seconds)
//
// Returns {allowed (0|1), remaining tokens as string}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local tokens_per_second = tonumber(ARGV[2])
local requested_tokens = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(bucket[1])
local last_refill = tonumber(bucket[2])

if tokens == nil then
  tokens = capacity
  last_refill = now
end

local time_elapsed = now - last_refill
local tokens_to_add = time_elapsed * tokens_per_second
tokens = math.min(capacity, tokens + tokens_to_add)
last_refill = now

local allowed = 0
if tokens >= requested_tokens then
  tokens = tokens - requested_tokens
  allowed = 1
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill', last_refill)
redis.call('EXPIRE', key, 120)

return {allowed, tostring(tokens)}
`)
