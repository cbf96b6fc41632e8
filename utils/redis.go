package utils

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharath018/accreditation-data-backend/config"
)

var (
	RedisClient *redis.Client
	Ctx         = context.Background()
)

// InitRedis connects the shared client. The app keeps running without redis:
// callers must treat a nil RedisClient as "cache disabled".
func InitRedis(cfg *config.Config) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(Ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unavailable at %s: %v (caching disabled)", cfg.RedisAddr, err)
		return
	}

	RedisClient = client
	log.Println("✅ Redis connected")
}

// CacheGet returns the cached value for key, or "" when redis is down or the
// key is missing.
func CacheGet(key string) string {
	if RedisClient == nil {
		return ""
	}
	val, err := RedisClient.Get(Ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

func CacheSet(key, value string, ttl time.Duration) {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Set(Ctx, key, value, ttl).Err(); err != nil {
		log.Printf("⚠️ Redis SET %s failed: %v", key, err)
	}
}

func CacheDelete(keys ...string) {
	if RedisClient == nil || len(keys) == 0 {
		return
	}
	if err := RedisClient.Del(Ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Redis DEL failed: %v", err)
	}
}
