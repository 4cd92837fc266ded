// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightclass/mediaup/pkg/logger"
)

// Redis is a Store backed by a shared Redis instance, for clients that run
// as several processes and want one catalog cache between them. Failures
// degrade to cache misses; the catalog falls back to the network.
type Redis struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// NewRedis creates a Redis-backed store.
func NewRedis(cfg RedisConfig) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg.KeyPrefix)
}

// NewRedisWithClient wraps an existing client. Tests use this with miniredis.
func NewRedisWithClient(client *redis.Client, keyPrefix string) *Redis {
	if keyPrefix == "" {
		keyPrefix = "mediaup:"
	}
	return &Redis{client: client, keyPrefix: keyPrefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("cache get failed, treating as miss")
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := r.client.Set(ctx, r.keyPrefix+key, val, ttl).Err(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("cache set failed")
	}
}

func (r *Redis) DeletePrefix(ctx context.Context, prefix string) {
	var cursor uint64
	pattern := r.keyPrefix + prefix + "*"
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("cache invalidation scan failed")
			return
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Msg("cache invalidation delete failed")
				return
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
