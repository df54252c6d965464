// Package cache provides a small TTL cache gated by the resolved cache
// configuration. Entries expire lazily: a stale entry is evicted on the read
// that discovers it, never by a background sweep, so memory for expired but
// unread entries is retained until that key is read again or the cache is
// cleared.
package cache
