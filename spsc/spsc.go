// Package spsc provides a lock-free ring buffer for exactly one
// producer goroutine and one consumer goroutine.
//
// The index arithmetic matches ring.Buffer: cursors advance modulo the
// storage size and one slot is sacrificed to tell full from empty. The
// cursors are atomic, so the producer's element store is published
// before its head advance becomes visible to the consumer, and the
// consumer's element load completes before its tail advance becomes
// visible to the producer. Sharing either end between two goroutines
// is not safe; use ring.Locked for that.
package spsc

import (
	"sync/atomic"

	"github.com/edgefeed/ringflow/ring"
)

// Ring is a single-producer/single-consumer ring buffer.
type Ring[T any] struct {
	items []T
	head  atomic.Uint64
	_     [64]byte // keep the cursors on separate cache lines
	tail  atomic.Uint64
	_     [64]byte
}

// New returns an empty Ring backed by size slots, holding up to size-1
// items. Sizes below 1 are rejected with ring.ErrCapacity.
func New[T any](size int) (*Ring[T], error) {
	if size < 1 {
		return nil, ring.ErrCapacity
	}
	return &Ring[T]{
		items: make([]T, size),
	}, nil
}

// Push appends v as the newest item. It returns false when the ring is
// full, leaving the ring untouched. Producer side only.
func (r *Ring[T]) Push(v T) bool {
	head := r.head.Load()
	next := (head + 1) % uint64(len(r.items))
	if next == r.tail.Load() {
		return false
	}
	r.items[head] = v
	r.head.Store(next)
	return true
}

// Pop removes and returns the oldest item; ok is false when the ring
// is empty. Consumer side only.
func (r *Ring[T]) Pop() (T, bool) {
	tail := r.tail.Load()
	if tail == r.head.Load() {
		var zero T
		return zero, false
	}
	v := r.items[tail]
	r.tail.Store((tail + 1) % uint64(len(r.items)))
	return v, true
}

// Len returns the number of items currently buffered. The value is a
// snapshot and may be stale by the time it is read.
func (r *Ring[T]) Len() int {
	head := r.head.Load()
	tail := r.tail.Load()
	if head >= tail {
		return int(head - tail)
	}
	return int(head + uint64(len(r.items)) - tail)
}

// Cap returns the usable capacity, one less than the storage size.
func (r *Ring[T]) Cap() int {
	return len(r.items) - 1
}
