package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stocktrack/api/internal/models"
)

// StockCache keeps the per-branch stock listing warm. All operations are
// best-effort: a cold or unreachable cache never fails the request.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStockCache(client *redis.Client, ttl time.Duration) *StockCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &StockCache{client: client, ttl: ttl}
}

func listKey(branch string) string {
	return fmt.Sprintf("stocks:branch:%s", branch)
}

func (c *StockCache) GetList(ctx context.Context, branch string) ([]models.Stock, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, listKey(branch)).Bytes()
	if err != nil {
		return nil, false
	}

	var stocks []models.Stock
	if err := json.Unmarshal(raw, &stocks); err != nil {
		return nil, false
	}
	return stocks, true
}

func (c *StockCache) SetList(ctx context.Context, branch string, stocks []models.Stock) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(stocks)
	if err != nil {
		return
	}
	c.client.Set(ctx, listKey(branch), raw, c.ttl)
}

func (c *StockCache) Invalidate(ctx context.Context, branches ...string) {
	if c == nil || c.client == nil || len(branches) == 0 {
		return
	}

	keys := make([]string, 0, len(branches))
	for _, branch := range branches {
		keys = append(keys, listKey(branch))
	}
	c.client.Del(ctx, keys...)
}
