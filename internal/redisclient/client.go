// Package redisclient wraps the Redis connection used for the catalog
// cache and short-lived password-reset tokens.
package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"commerce-platform/internal/models"
)

const (
	catalogKey      = "catalog:all"
	catalogTTL      = 2 * time.Minute
	dashboardKey    = "analytics:dashboard"
	dashboardTTL    = 30 * time.Second
	resetTokenScope = "reset-token:"
)

// ErrCacheMiss is returned when a cached value is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies connectivity.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetCatalog returns the cached product list, or ErrCacheMiss.
func (c *Client) GetCatalog(ctx context.Context) ([]models.Product, error) {
	raw, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("corrupt catalog cache: %w", err)
	}
	return products, nil
}

// SetCatalog caches the product list with a short TTL.
func (c *Client) SetCatalog(ctx context.Context, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, catalogKey, raw, catalogTTL).Err()
}

// InvalidateCatalog drops the cached product list after a mutation.
func (c *Client) InvalidateCatalog(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogKey).Err()
}

// GetDashboardStats returns the cached dashboard aggregate, or ErrCacheMiss.
func (c *Client) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	raw, err := c.rdb.Get(ctx, dashboardKey).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var stats models.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("corrupt dashboard cache: %w", err)
	}
	return &stats, nil
}

// SetDashboardStats caches the dashboard aggregate briefly.
func (c *Client) SetDashboardStats(ctx context.Context, stats *models.DashboardStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dashboardKey, raw, dashboardTTL).Err()
}

// InvalidateDashboardStats drops the dashboard cache after a write that
// changes the aggregates.
func (c *Client) InvalidateDashboardStats(ctx context.Context) error {
	return c.rdb.Del(ctx, dashboardKey).Err()
}

// SetResetToken stores a password-reset token -> user id mapping with TTL.
func (c *Client) SetResetToken(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, resetTokenScope+token, userID, ttl).Err()
}

// GetResetToken resolves a password-reset token to its user id.
func (c *Client) GetResetToken(ctx context.Context, token string) (int64, error) {
	userID, err := c.rdb.Get(ctx, resetTokenScope+token).Int64()
	if err == redis.Nil {
		return 0, ErrCacheMiss
	}
	return userID, err
}

// DeleteResetToken consumes a password-reset token.
func (c *Client) DeleteResetToken(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, resetTokenScope+token).Err()
}
