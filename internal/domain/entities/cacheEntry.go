package entities

import "time"

// CacheEntry is a resolved identity. A nil Value records a lookup that found nobody.
type CacheEntry struct {
	Value     *UserRecord `json:"value"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// Valid reports whether the entry is still inside its TTL at now.
func (ce CacheEntry) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(ce.FetchedAt) < ttl
}
