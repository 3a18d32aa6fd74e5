package events

const (
	TopicCacheInvalidated = "admin.cache.invalidated"
)

// Partition key = scope, supaya event per scope maintain urutan.
func PartitionKey(scope string) []byte { return []byte(scope) }
