package chain

import "sync/atomic"

// RefCount is an atomic reference counter with a fast-path uniqueness check.
//
// A live object starts with a count of 1. Ref and Unref pair up; the owner
// that observes Unref returning true is responsible for destruction.
type RefCount struct {
	n atomic.Int64
}

// newRefCount returns a counter initialized to 1.
func newRefCount() RefCount {
	var r RefCount
	r.n.Store(1)
	return r
}

// Ref acquires an additional reference.
func (r *RefCount) Ref() {
	r.n.Add(1)
}

// Unref drops a reference and reports whether the count reached zero.
//
// When a plain load already shows 1 the caller holds the only reference, so
// the decrement cannot race with another owner and the atomic RMW is elided.
func (r *RefCount) Unref() bool {
	if r.n.Load() == 1 {
		r.n.Store(0)
		return true
	}
	return r.n.Add(-1) == 0
}

// Unique reports whether exactly one reference exists. The result is only
// meaningful to a caller that itself holds a reference: if it returns true,
// no other owner can appear concurrently.
func (r *RefCount) Unique() bool {
	return r.n.Load() == 1
}

// Count returns a snapshot of the reference count.
func (r *RefCount) Count() int64 {
	return r.n.Load()
}
