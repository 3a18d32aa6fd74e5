package stock

import (
	"context"
	"sync"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/ordersvc"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// Fetcher is the one upstream call the aggregator needs; *ordersvc.Client
// satisfies it.
type Fetcher interface {
	GetCurrentStock(ctx context.Context, productID int64) (ordersvc.StockLevel, error)
}

// Aggregator fans out one stock lookup per product and merges the settled
// results. A failed lookup for one product never aborts the others: that
// product is simply absent from the map and renders as unknown/zero. No
// retries; the next full refresh heals transient gaps.
type Aggregator struct {
	Fetcher Fetcher
	Cache   LevelCache // optional
	Limit   int        // max in-flight lookups, defaultConcurrency when <= 0
}

// Load resolves current stock for the given products, reading through the
// cache when one is wired. The merge is commutative: response order does
// not matter, and each key's value is independently fetched, so last write
// wins per key is safe.
func (a *Aggregator) Load(ctx context.Context, products []ordersvc.Product) map[int64]ordersvc.StockLevel {
	return a.load(ctx, products, true)
}

// Refresh rebuilds stock wholesale, bypassing cache reads and overwriting
// cached entries. Used after movement create/delete, which mutate the
// aggregate upstream.
func (a *Aggregator) Refresh(ctx context.Context, products []ordersvc.Product) map[int64]ordersvc.StockLevel {
	return a.load(ctx, products, false)
}

func (a *Aggregator) load(ctx context.Context, products []ordersvc.Product, readCache bool) map[int64]ordersvc.StockLevel {
	limit := a.Limit
	if limit <= 0 {
		limit = defaultConcurrency
	}

	var mu sync.Mutex
	out := make(map[int64]ordersvc.StockLevel, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, p := range products {
		pid := p.ProductID
		g.Go(func() error {
			if readCache && a.Cache != nil {
				if lvl, ok := a.Cache.Get(gctx, pid); ok {
					mu.Lock()
					out[pid] = lvl
					mu.Unlock()
					return nil
				}
			}
			lvl, err := a.Fetcher.GetCurrentStock(gctx, pid)
			if err != nil {
				// absent, bukan error: gap sementara bukan failure buat operator
				return nil
			}
			mu.Lock()
			out[pid] = lvl
			mu.Unlock()
			if a.Cache != nil {
				a.Cache.Put(gctx, lvl)
			}
			return nil
		})
	}
	_ = g.Wait() // workers swallow their own errors
	return out
}
