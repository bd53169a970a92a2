package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"delivergo/entity"

	"github.com/go-redis/redis/v8"
)

// Client is a read-through cache for hot tracking lookups. All methods
// are safe on a nil receiver so the server runs without Redis configured.
type Client struct {
	rdb *redis.Client
}

const latestTTL = 10 * time.Minute

func Connect(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

func latestKey(orderID uint) string {
	return fmt.Sprintf("order_latest:%d", orderID)
}

func (c *Client) SetLatestEvent(orderID uint, ev *entity.TrackingEvent) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.rdb.Set(context.Background(), latestKey(orderID), data, latestTTL).Err()
}

// GetLatestEvent returns (nil, nil) on a cache miss.
func (c *Client) GetLatestEvent(orderID uint) (*entity.TrackingEvent, error) {
	if c == nil {
		return nil, nil
	}
	val, err := c.rdb.Get(context.Background(), latestKey(orderID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ev entity.TrackingEvent
	if err := json.Unmarshal([]byte(val), &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *Client) InvalidateOrder(orderID uint) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(context.Background(), latestKey(orderID)).Err()
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
