package redisinfra

import (
	"github.com/pugly/api/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a Redis client from config.
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
