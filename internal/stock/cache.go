package stock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/ordersvc"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// LevelCache is what the aggregator and refresher need from a stock cache.
type LevelCache interface {
	Get(ctx context.Context, productID int64) (ordersvc.StockLevel, bool)
	Put(ctx context.Context, lvl ordersvc.StockLevel)
	Invalidate(ctx context.Context, productIDs ...int64)
}

// Cache is a transient read-through cache of upstream stock figures backed
// by redis. Values are never authoritative here; the TTL plus invalidation
// events keep it honest. Any redis hiccup degrades to a direct lookup.
type Cache struct {
	R *redis.Client
}

var _ LevelCache = (*Cache)(nil)

func (c *Cache) Get(ctx context.Context, productID int64) (ordersvc.StockLevel, bool) {
	key := fmt.Sprintf(redisx.KeyStockLevel, productID)
	s, err := c.R.Get(ctx, key).Result()
	if err != nil || s == "" {
		return ordersvc.StockLevel{}, false
	}
	var lvl ordersvc.StockLevel
	if err := json.Unmarshal([]byte(s), &lvl); err != nil {
		return ordersvc.StockLevel{}, false
	}
	return lvl, true
}

func (c *Cache) Put(ctx context.Context, lvl ordersvc.StockLevel) {
	key := fmt.Sprintf(redisx.KeyStockLevel, lvl.ProductID)
	b, err := json.Marshal(lvl)
	if err != nil {
		return
	}
	_ = c.R.Set(ctx, key, b, redisx.TTLStockLevel).Err()
}

func (c *Cache) Invalidate(ctx context.Context, productIDs ...int64) {
	for _, id := range productIDs {
		_ = c.R.Del(ctx, fmt.Sprintf(redisx.KeyStockLevel, id)).Err()
	}
}
