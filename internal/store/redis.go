package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/JonMunkholm/dqi/internal/config"
	"github.com/JonMunkholm/dqi/internal/dqi"
)

// Redis stores each report under prefix+key. Expiry is delegated to Redis
// through the key TTL, so Prune has nothing to do.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// OpenRedis connects to the server in cfg and verifies it answers PING.
func OpenRedis(ctx context.Context, cfg config.StoreConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: cfg.RedisPoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}

	return NewRedis(client, cfg.KeyPrefix, cfg.Retention), nil
}

// NewRedis wraps an existing client. A zero ttl stores reports without expiry.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

func (r *Redis) Put(ctx context.Context, key string, rep *dqi.Report) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encodeReport(rep)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("put report %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) (*dqi.Report, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", key, err)
	}
	return decodeReport(data)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("delete report %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Prune(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
