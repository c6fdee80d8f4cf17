package ratelimit

import (
	"context"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares fixed-window counters across instances. The counter for
// each key expires with the window, so the reset boundary is the TTL of the
// key itself. Denied requests never touch the counter, matching MemoryStore.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

var takeScript = redis.NewScript(`
	local current = tonumber(redis.call('GET', KEYS[1]) or '0')
	if current >= tonumber(ARGV[1]) then
		return {0, current, redis.call('PTTL', KEYS[1])}
	end
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[2])
	end
	return {1, count, redis.call('PTTL', KEYS[1])}
`)

func (s *RedisStore) Take(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	res, err := takeScript.Run(ctx, s.client, []string{s.prefix + key}, limit, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, err
	}
	if len(res) != 3 {
		return Result{}, redis.Nil
	}

	allowed := res[0] == 1
	count := int(res[1])
	ttl := time.Duration(res[2]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	resetTime := time.Now().Add(ttl)

	if !allowed {
		return Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetTime:  resetTime,
			RetryAfter: int(math.Ceil(ttl.Seconds())),
		}, nil
	}

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - count,
		ResetTime: resetTime,
	}, nil
}
