package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arbiterdev/arbiter"
	"github.com/arbiterdev/arbiter/strategy"
)

const (
	redisKeyPrefix   = "arbiter:judgment:"
	redisKindPrefix  = "arbiter:kind:"
	redisAllKey      = "arbiter:judgments"
	redisDialTimeout = 5 * time.Second
)

// RedisOptions configures the Redis-backed store.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string

	// TTL expires judgment records after the given duration. Zero
	// keeps them forever.
	TTL time.Duration
}

// Redis is a Store backed by a Redis server. Judgments are stored as
// JSON values with per-kind index lists for listing.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis server and verifies the connection.
func NewRedis(opts RedisOptions) (*Redis, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("store: parse redis URL: %w", err)
	}
	redisOpts.DialTimeout = redisDialTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("store: connect to redis: %w", err)
	}

	return &Redis{client: client, ttl: opts.TTL}, nil
}

func (r *Redis) Save(ctx context.Context, j *arbiter.Judgment) error {
	data, err := encodeRecord(j)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+j.ID, data, r.ttl)
	pipe.LPush(ctx, redisKindPrefix+string(j.Kind), j.ID)
	pipe.LPush(ctx, redisAllKey, j.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store: save judgment %s: %w", j.ID, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (*arbiter.Judgment, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load judgment %s: %w", id, err)
	}
	return decodeRecord(data)
}

func (r *Redis) List(ctx context.Context, kind strategy.Kind, limit int) ([]*arbiter.Judgment, error) {
	if limit <= 0 {
		limit = 100
	}

	indexKey := redisAllKey
	if kind != "" {
		indexKey = redisKindPrefix + string(kind)
	}

	ids, err := r.client.LRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("store: list judgments: %w", err)
	}

	out := make([]*arbiter.Judgment, 0, len(ids))
	for _, id := range ids {
		j, err := r.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Expired record still referenced by the index.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

func (r *Redis) Close() error { return r.client.Close() }
