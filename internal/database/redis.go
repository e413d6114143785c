package database

import (
	"context"
	"fmt"
	"log"

	"github.com/ecommerce-cloud/backend/internal/config"
	"github.com/go-redis/redis/v8"
)

// OpenRedis connects to the document store holding products and orders.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	log.Println("Redis connection established")
	return rdb, nil
}
