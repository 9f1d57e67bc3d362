package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisQueueKey   = "shashikala:queue:jobs"
	redisDelayedKey = "shashikala:queue:delayed"
)

// promoteDue moves delayed jobs whose time has come onto the ready list in
// one atomic step, so two workers never promote the same job.
var promoteDue = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 100)
for _, job in ipairs(due) do
  redis.call('ZREM', KEYS[1], job)
  redis.call('LPUSH', KEYS[2], job)
end
return #due
`)

// RedisDriver is backed by a Redis list (LPUSH/BRPOP) for ready jobs and a
// sorted set scored by due time for delayed ones.
type RedisDriver struct {
	rdb     redis.UniversalClient
	timeout time.Duration
}

// NewRedisDriver shares the client used by the cache store.
func NewRedisDriver(rdb redis.UniversalClient) *RedisDriver {
	return &RedisDriver{rdb: rdb, timeout: time.Second}
}

func (d *RedisDriver) Push(ctx context.Context, payload []byte, delay time.Duration) error {
	if delay > 0 {
		z := redis.Z{Score: float64(time.Now().Add(delay).UnixMilli()), Member: string(payload)}
		if err := d.rdb.ZAdd(ctx, redisDelayedKey, z).Err(); err != nil {
			return fmt.Errorf("queue/redis: push delayed: %w", err)
		}
		return nil
	}
	if err := d.rdb.LPush(ctx, redisQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop promotes due delayed jobs, then waits up to one second for a ready one.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := promoteDue.Run(ctx, d.rdb, []string{redisDelayedKey, redisQueueKey}, now).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("queue/redis: promote: %w", err)
	}

	result, err := d.rdb.BRPop(ctx, d.timeout, redisQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	return []byte(result[1]), nil
}
