// Package intern collapses structurally-equal pipelines onto a single
// node. It wraps the generic soft-limit cache adapted into
// internal/cache, keyed by a pipeline's structural hash under a fixed
// comparison mask.
//
// Interning is optional: nothing in the core requires it, but it lets
// a Context collapse repeated setter sequences that land on the same
// effective state (for example building the same material many times
// per frame) onto one shared node instead of growing the sharing tree
// with duplicates.
package intern

import "github.com/gogpu/pipegraph/internal/cache"

// Table interns values of type V keyed by a uint64 structural hash,
// with an Equal fallback to resolve hash collisions. It does not own
// the lifetime of interned values; callers are responsible for
// ref-counting whatever V represents.
type Table[V any] struct {
	buckets *cache.Cache[uint64, []V]
	equal   func(a, b V) bool
}

// New creates an interning table with the given soft entry limit (per
// internal/cache.Cache semantics) and equality fallback for hash
// collisions.
func New[V any](softLimit int, equal func(a, b V) bool) *Table[V] {
	return &Table[V]{
		buckets: cache.New[uint64, []V](softLimit),
		equal:   equal,
	}
}

// Intern returns the previously-interned value structurally equal to
// candidate under hash h, or stores and returns candidate if none
// exists yet.
func (t *Table[V]) Intern(h uint64, candidate V) V {
	bucket, _ := t.buckets.Get(h)
	for _, existing := range bucket {
		if t.equal(existing, candidate) {
			return existing
		}
	}
	t.buckets.Set(h, append(bucket, candidate))
	return candidate
}

// Forget removes candidate from its hash bucket, if present. Callers
// use this when an interned value is about to be destroyed so a future
// Intern call under the same hash doesn't return a dangling value.
func (t *Table[V]) Forget(h uint64, candidate V) {
	bucket, ok := t.buckets.Get(h)
	if !ok {
		return
	}
	for i, existing := range bucket {
		if t.equal(existing, candidate) {
			bucket = append(bucket[:i], bucket[i+1:]...)
			if len(bucket) == 0 {
				t.buckets.Delete(h)
			} else {
				t.buckets.Set(h, bucket)
			}
			return
		}
	}
}

// Len reports the number of distinct hash buckets currently held.
func (t *Table[V]) Len() int {
	return t.buckets.Len()
}
