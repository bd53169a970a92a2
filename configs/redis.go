package configs

import (
	"log"

	"delivergo/cache"
)

// ConnectCache opens the optional Redis cache. A missing REDIS_URL or a
// failed connection just means every latest-status read hits the DB.
func ConnectCache(cfg *Config) *cache.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	client, err := cache.Connect(cfg.RedisURL)
	if err != nil {
		log.Printf("redis unavailable, running without cache: %v", err)
		return nil
	}
	return client
}
