package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snapapi-hq/snapapi-go/internal/domain"
)

// redisAPI is the subset of *redis.Client the store uses.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// redisStore keeps the same JSON records as the bbolt store under prefixed
// keys that expire server-side, so it needs no sweep.
type redisStore struct {
	client redisAPI
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

func openRedis(opts Options) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.RedisAddr, err)
	}
	return newRedisStore(client, opts.RedisPrefix, opts.TaskTTL), nil
}

func newRedisStore(client redisAPI, prefix string, ttl time.Duration) *redisStore {
	return &redisStore{client: client, prefix: prefix, ttl: ttl, now: time.Now}
}

func (r *redisStore) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *redisStore) LastRun(ctx context.Context, key string) (domain.TaskRecord, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.TaskRecord{}, false, nil
	}
	if err != nil {
		return domain.TaskRecord{}, false, fmt.Errorf("redis get: %w", err)
	}
	rec, ok := decodeRecord(raw)
	if !ok || !rec.Live(r.now()) {
		return domain.TaskRecord{}, false, nil
	}
	return rec, true, nil
}

func (r *redisStore) MarkTask(ctx context.Context, key string, rec domain.TaskRecord) error {
	stamped, err := stampRecord(key, rec, r.now(), r.ttl)
	if err != nil {
		return err
	}
	raw, err := encodeRecord(stamped)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+stamped.Key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
