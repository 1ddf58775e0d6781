package nv

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisTimeout bounds every Redis round trip.
const redisTimeout = 2 * time.Second

// RedisStore keeps a node's parameters as fields of one Redis hash.
// The server's persistence settings decide how durable a write is.
type RedisStore struct {
	client *redis.Client
	hash   string
}

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Hash     string // e.g. "soundandvision:node-a:nv"
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return &RedisStore{client: client, hash: cfg.Hash}, nil
}

// Load returns the stored value. Fields that do not parse as a decimal
// integer load as non-integer strings.
func (r *RedisStore) Load(key string) (Value, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	s, err := r.client.HGet(ctx, r.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return Value{}, nil
	}
	if err != nil {
		return Value{}, fmt.Errorf("hget %s %s: %w", r.hash, key, err)
	}

	if n, err := strconv.Atoi(s); err == nil {
		return Int(n), nil
	}
	return Raw(s), nil
}

// Save stores an integer.
func (r *RedisStore) Save(key string, v int) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := r.client.HSet(ctx, r.hash, key, strconv.Itoa(v)).Err(); err != nil {
		return fmt.Errorf("hset %s %s: %w", r.hash, key, err)
	}
	return nil
}

// Delete clears the key.
func (r *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := r.client.HDel(ctx, r.hash, key).Err(); err != nil {
		return fmt.Errorf("hdel %s %s: %w", r.hash, key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
