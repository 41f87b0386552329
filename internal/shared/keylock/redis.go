package keylock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisLockPrefix = "lock:"

// releaseScript deletes the lock only while it still holds the caller's
// token. A holder whose TTL ran out must not free a lock that someone else
// has taken since.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is a SET NX lock shared by every process that talks to the same Redis.
// The TTL frees the key if a holder dies without unlocking.
type Redis struct {
	rdb      *redis.Client
	ttl      time.Duration
	retry    time.Duration
	newToken func() string
	logger   *zap.Logger
}

func NewRedis(rdb *redis.Client, ttl, retry time.Duration, logger ...*zap.Logger) *Redis {
	l := zap.L().Named("keylock.redis")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("keylock.redis")
	}
	return &Redis{rdb: rdb, ttl: ttl, retry: retry, newToken: uuid.NewString, logger: l}
}

func RedisKey(key string) string {
	return redisLockPrefix + key
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := RedisKey(key)
	token := r.newToken()

	for {
		acquired, err := r.rdb.SetNX(ctx, lockKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", lockKey, err)
		}
		if acquired {
			return func() { r.release(lockKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.retry):
		}
	}
}

func (r *Redis) release(lockKey, token string) {
	deleted, err := releaseScript.Run(context.Background(), r.rdb, []string{lockKey}, token).Int64()
	switch {
	case err != nil:
		r.logger.Warn("release lock failed", zap.String("key", lockKey), zap.Error(err))
	case deleted == 0:
		r.logger.Warn("lock expired before release", zap.String("key", lockKey))
	}
}
