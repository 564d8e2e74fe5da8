package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"pawdispatch/config"
)

// AlertCacheClient is the dedicated client for geofence alert de-duplication.
var AlertCacheClient *redis.Client

// InitAlertCache initializes the Redis client backing the per-session
// geofence alert sets.
func InitAlertCache() {
	AlertCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAlertDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := AlertCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Alert Cache): %v", err)
	}
}

// GetAlertCacheClient returns the Redis client for alert de-duplication.
func GetAlertCacheClient() *redis.Client {
	if AlertCacheClient == nil {
		InitAlertCache()
	}
	return AlertCacheClient
}
