package cache

import (
	"time"
)

// CacheService is the cache behind fetch block windows: when a source
// rate-limits us, the fetcher records a key here and refuses to hit that
// source again until the entry expires.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
