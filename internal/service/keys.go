package service

import "fmt"

// Cache key layout: one entry per product plus a single coarse entry for the
// full listing. The collection entry is evicted on every mutation since it
// has no per-id granularity.
const collectionKey = "products:all"

func itemKey(id int64) string {
	return fmt.Sprintf("products:%d", id)
}
