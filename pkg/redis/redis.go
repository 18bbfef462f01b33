package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/kraakman/autoservice-backend/config"
	"github.com/kraakman/autoservice-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Client wraps the redis connection with the snapshot operations the
// review cache uses.
type Client struct {
	rdb *redis.Client
}

// Connect opens the redis connection and verifies it with a ping.
func Connect(cfg *config.RedisConfig) (*Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		logger.Info("Closing Redis connection", nil)
		return c.rdb.Close()
	}
	return nil
}

// Save stores a snapshot without expiry. Snapshots are fallback data and
// stay useful no matter how old they get.
func (c *Client) Save(ctx context.Context, key string, data []byte) error {
	if err := c.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		logger.Error("Failed to save snapshot to Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}

	logger.Debug("Snapshot saved to Redis", map[string]interface{}{
		"key":  key,
		"size": len(data),
	})
	return nil
}

// Load reads a snapshot. A missing key is an error: the caller treats any
// failure here as "try the next tier".
func (c *Client) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("snapshot not found: %s", key)
		}
		logger.Error("Failed to load snapshot from Redis", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}
	return data, nil
}
