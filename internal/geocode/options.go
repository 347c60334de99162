package geocode

import "time"

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithMaxEntries bounds the number of cached names.
// If n > 0: the oldest entry is evicted when the bound is reached.
// If n <= 0: unbounded mode (no eviction, no size limit).
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		c.maxEntries = n
	}
}

// WithTTL expires entries older than d. Zero disables expiry.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		c.ttl = d
	}
}

// withClock replaces the time source; used in tests.
func withClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}
