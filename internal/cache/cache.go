// Package cache holds small in-process caches with expiring entries.
package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)
}

var _ Cache[int] = (*LRUCache[int])(nil)
