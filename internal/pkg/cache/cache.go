package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/JonasWeber/TrackNest/internal/pkg/env"
	"github.com/redis/go-redis/v9"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache initializes the connection to the Redis cache server used for
// download grants, rate limiting and the reconciliation sweep lock.
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	// Test the connection
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to cache: %v", err)
	} else {
		log.Printf("Successfully connected to cache: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// Set stores a value in the cache with the given key and expiration time
func Set(key string, value interface{}, expiration time.Duration) error {
	return GetClient().Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key
func Get(key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}

// Delete removes a value from the cache by key
func Delete(key string) error {
	return GetClient().Del(ctx, key).Err()
}

// AcquireLock grabs a best-effort distributed lock via SETNX. It returns true
// if this process holds the lock for the given TTL.
func AcquireLock(key string, ttl time.Duration) bool {
	ok, err := GetClient().SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		log.Printf("cache lock %s: %v", key, err)
		return false
	}
	return ok
}

// ReleaseLock drops a lock acquired with AcquireLock.
func ReleaseLock(key string) {
	if err := GetClient().Del(ctx, key).Err(); err != nil {
		log.Printf("cache unlock %s: %v", key, err)
	}
}
