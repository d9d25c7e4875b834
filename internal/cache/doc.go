// Package cache provides a generic, thread-safe soft-limit cache.
//
// It backs internal/intern's pipeline-interning table: callers key
// entries by a structural hash and evict the 25% least-recently-used
// entries once a soft limit is exceeded.
//
//	c := cache.New[uint64, []*Pipeline](256)
//	c.Set(hash, []*Pipeline{p})
//	bucket, ok := c.Get(hash)
package cache
