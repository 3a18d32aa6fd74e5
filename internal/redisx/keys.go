package redisx

import "time"

const (
	// Read-through cache of upstream stock figures: stock:level:{product_id} -> StockLevel JSON
	KeyStockLevel = "stock:level:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStockLevel = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
)
