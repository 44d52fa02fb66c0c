package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xhfmvls/c-buy/models"
)

// ProductCache holds single-product lookups. Implementations treat backend
// failures as misses.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*models.Product, bool)
	Set(ctx context.Context, p *models.Product)
	Invalidate(ctx context.Context, productIDs ...string)
}

type NopProductCache struct{}

func (NopProductCache) Get(context.Context, string) (*models.Product, bool) { return nil, false }
func (NopProductCache) Set(context.Context, *models.Product)                {}
func (NopProductCache) Invalidate(context.Context, ...string)               {}

// settleDelay is how long after an invalidation the keys are dropped again. A read
// that loaded the row before the write committed may Set the old value after the
// first delete; the second delete removes it. Anything slower is bounded by the TTL.
const settleDelay = 500 * time.Millisecond

type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	settle time.Duration
	log    *slog.Logger
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration, log *slog.Logger) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl, settle: settleDelay, log: log}
}

// Connect dials redis and checks it answers PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func productKey(id string) string {
	return "product:" + id
}

func (c *RedisProductCache) Get(ctx context.Context, productID string) (*models.Product, bool) {
	raw, err := c.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("product cache get failed", slog.String("product_id", productID), slog.Any("err", err))
		}
		return nil, false
	}

	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warn("product cache entry corrupt", slog.String("product_id", productID), slog.Any("err", err))
		return nil, false
	}
	return &p, true
}

func (c *RedisProductCache) Set(ctx context.Context, p *models.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKey(p.ProductID), data, c.ttl).Err(); err != nil {
		c.log.Warn("product cache set failed", slog.String("product_id", p.ProductID), slog.Any("err", err))
	}
}

func (c *RedisProductCache) Invalidate(ctx context.Context, productIDs ...string) {
	if len(productIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}
	c.del(ctx, keys)

	if c.settle > 0 {
		detached := context.WithoutCancel(ctx)
		time.AfterFunc(c.settle, func() { c.del(detached, keys) })
	}
}

func (c *RedisProductCache) del(ctx context.Context, keys []string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("product cache invalidate failed", slog.Any("keys", keys), slog.Any("err", err))
	}
}
