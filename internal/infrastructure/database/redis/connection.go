// internal/infrastructure/database/redis/connection.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
)

// Connection wraps the Redis client
type Connection struct {
	client *redis.Client
}

// NewConnection creates a new Redis connection
func NewConnection(cfg *config.Config) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Connection{client: client}, nil
}

// GetClient returns the underlying Redis client
func (c *Connection) GetClient() *redis.Client {
	return c.client
}

// Health checks Redis connectivity
func (c *Connection) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Connection) Close() error {
	return c.client.Close()
}
