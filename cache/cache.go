package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartTTL = 5 * time.Minute

// Cache is a read-through cache for serialized cart responses. A nil *Cache
// is valid and disables caching, so callers never need to branch on it.
type Cache struct {
	rdb *redis.Client
}

func Connect(addr, password string) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &Cache{rdb: rdb}, nil
}

func cartKey(userID string) string { return "cart:" + userID }

func (c *Cache) GetCart(ctx context.Context, userID string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *Cache) SetCart(ctx context.Context, userID string, payload []byte) {
	if c == nil {
		return
	}
	c.rdb.Set(ctx, cartKey(userID), payload, cartTTL)
}

func (c *Cache) InvalidateCart(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, cartKey(userID))
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
