package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/logger"
)

const keyPrefix = "votacion:lock:"

// releaseScript deletes the lease only if this holder still owns it
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis implements Locker with SET NX PX leases
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	log    *log.Logger
}

// NewRedis connects to redisURL. ttl bounds how long a crashed holder blocks a key.
func NewRedis(ctx context.Context, redisURL string, ttl, wait time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Redis{
		client: client,
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
		log:    logger.Storage("redis"),
	}, nil
}

func (r *Redis) Acquire(ctx context.Context, keys ...string) (func(), error) {
	if r.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.wait)
		defer cancel()
	}

	token := uuid.NewString()
	keys = normalize(keys)
	acquired := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := r.acquireOne(ctx, keyPrefix+key, token); err != nil {
			r.release(acquired, token)
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, waitTimeout(key, err)
			}
			return nil, common.StoreError("acquire lease", err)
		}
		acquired = append(acquired, keyPrefix+key)
	}

	return func() { r.release(acquired, token) }, nil
}

func (r *Redis) acquireOne(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// release runs on a fresh context: the request context may already be done.
func (r *Redis) release(keys []string, token string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil {
			r.log.Warn("failed to release lease, it will expire", "key", key, "error", err)
		}
	}
}

// Close closes the redis client
func (r *Redis) Close() error {
	return r.client.Close()
}
