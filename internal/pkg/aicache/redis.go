package aicache

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces cache entries so Clear does not touch keys owned
// by other subsystems sharing the same Redis database.
const redisKeyPrefix = "aicache:"

// Redis is the shared-infrastructure ResponseCache implementation. Redis
// errors never reach the caller: Get degrades to a miss, Set to a logged
// false, matching the advisory contract of the in-memory cache.
type Redis struct {
	client *redis.Client
	cfg    Config

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedis wraps an existing Redis client. TTL handling is delegated to
// Redis itself, so the Clock from cfg is unused here.
func NewRedis(client *redis.Client, cfg Config) *Redis {
	return &Redis{client: client, cfg: cfg.withDefaults()}
}

func (r *Redis) Get(contentType, prompt string, userID uint) (string, bool) {
	key := redisKeyPrefix + Key(contentType, prompt, userID, r.cfg.Hash)
	val, err := r.client.Get(context.Background(), key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[AICache] redis get failed: %v", err)
		}
		r.misses.Add(1)
		return "", false
	}
	r.hits.Add(1)
	return val, true
}

func (r *Redis) Set(contentType, prompt, value string, userID uint, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = r.cfg.DefaultTTL
	}
	key := redisKeyPrefix + Key(contentType, prompt, userID, r.cfg.Hash)
	if err := r.client.Set(context.Background(), key, value, ttl).Err(); err != nil {
		log.Printf("[AICache] redis set failed: %v", err)
		return false
	}
	return true
}

func (r *Redis) SetStatic(contentType, prompt, value string, userID uint) bool {
	return r.Set(contentType, prompt, value, userID, r.cfg.StaticTTL)
}

func (r *Redis) Delete(contentType, prompt string, userID uint) int {
	key := redisKeyPrefix + Key(contentType, prompt, userID, r.cfg.Hash)
	removed, err := r.client.Del(context.Background(), key).Result()
	if err != nil {
		log.Printf("[AICache] redis delete failed: %v", err)
		return 0
	}
	return int(removed)
}

func (r *Redis) Clear() {
	ctx := context.Background()
	keys, err := r.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		log.Printf("[AICache] redis clear failed: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[AICache] redis clear failed: %v", err)
	}
}

func (r *Redis) Stats() Stats {
	keys, err := r.client.Keys(context.Background(), redisKeyPrefix+"*").Result()
	if err != nil {
		log.Printf("[AICache] redis stats failed: %v", err)
	}
	return Stats{
		Hits:   r.hits.Load(),
		Misses: r.misses.Load(),
		Keys:   int64(len(keys)),
	}
}
