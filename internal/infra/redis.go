package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// RealtimePublisher fans branch events out over redis pub/sub. Dashboard
// websocket bridges subscribe to the per-branch channel.
type RealtimePublisher struct {
	rdb *redis.Client
}

func NewRealtimePublisher(rdb *redis.Client) *RealtimePublisher {
	return &RealtimePublisher{rdb: rdb}
}

func (p *RealtimePublisher) PublishBranch(ctx context.Context, tenantID, branchID int64, event string, payload any) error {
	msg, err := json.Marshal(map[string]any{
		"event":   event,
		"payload": payload,
		"ts":      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	channel := fmt.Sprintf("branch:%d:%d", tenantID, branchID)
	return p.rdb.Publish(ctx, channel, msg).Err()
}

// RedisLocker serializes critical sections across server instances using
// bsm/redislock. Lock keys already carry the tenant scope; the locker does
// not add one.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    10 * time.Second,
	}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return fmt.Errorf("no se pudo obtener el lock %s: %w", key, err)
		}
		return err
	}
	defer lock.Release(context.WithoutCancel(ctx))
	return fn()
}
