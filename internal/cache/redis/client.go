package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ndc-explorer/backend/pkg/logger"
)

// Client is an explicit view-model cache keyed by (operation, parameter
// tuple). It is injected into the pages service rather than hidden inside
// the data layer, and every entry expires on its TTL; nothing is cached
// implicitly.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis view cache initialized",
		zap.String("addr", fmt.Sprintf("%s:%d", host, port)),
		zap.Duration("ttl", ttl),
	)

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func viewKey(operation, params string) string {
	return fmt.Sprintf("view:%s:%s", operation, params)
}

// GetView loads a cached view model into view. The bool reports whether the
// key was present.
func (c *Client) GetView(ctx context.Context, operation, params string, view interface{}) (bool, error) {
	data, err := c.client.Get(ctx, viewKey(operation, params)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cached view: %w", err)
	}

	if err := json.Unmarshal(data, view); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached view: %w", err)
	}

	logger.Debug("View cache hit", zap.String("operation", operation))
	return true, nil
}

// SetView stores a view model under (operation, params) for the configured
// TTL.
func (c *Client) SetView(ctx context.Context, operation, params string, view interface{}) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal view: %w", err)
	}

	if err := c.client.Set(ctx, viewKey(operation, params), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached view: %w", err)
	}

	logger.Debug("View cached", zap.String("operation", operation), zap.Duration("ttl", c.ttl))
	return nil
}

// Invalidate drops every cached view for one operation.
func (c *Client) Invalidate(ctx context.Context, operation string) error {
	iter := c.client.Scan(ctx, 0, viewKey(operation, "*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("Failed to delete cache key", zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Info("View cache invalidated", zap.String("operation", operation))
	return nil
}
