package ring

import "errors"

var (
	// ErrOverflow is returned by Push when no usable slot remains.
	ErrOverflow = errors.New("ring: buffer full")
	// ErrUnderflow is returned by Pop when no data is present.
	ErrUnderflow = errors.New("ring: buffer empty")
	// ErrClosed is returned by Push and Pop after Close, or on a
	// zero-value Buffer that was never constructed with New.
	ErrClosed = errors.New("ring: buffer closed")
	// ErrCapacity is returned by New for a size below 1.
	ErrCapacity = errors.New("ring: size must be at least 1")
)

// Buffer is a fixed-capacity FIFO ring buffer. One storage slot is
// sacrificed so that full and empty are distinguishable with two
// cursors alone: a Buffer of size n holds at most n-1 items.
//
// A Buffer is not safe for concurrent use. Wrap it in a Locked, or use
// package spsc for a lock-free single-producer/single-consumer ring.
type Buffer[T any] struct {
	items []T
	head  int // next slot to write
	tail  int // next slot to read
}

// New returns an empty Buffer backed by size slots, holding up to
// size-1 items. A size of 1 is degenerate but valid: every Push
// overflows. Sizes below 1 are rejected with ErrCapacity.
func New[T any](size int) (*Buffer[T], error) {
	if size < 1 {
		return nil, ErrCapacity
	}
	return &Buffer[T]{
		items: make([]T, size),
	}, nil
}

// Push appends v as the newest item. It fails with ErrOverflow when
// the buffer is full, leaving the buffer untouched; dropping v,
// evicting the oldest item first, or retrying later are all caller
// policies.
func (b *Buffer[T]) Push(v T) error {
	if b.items == nil {
		return ErrClosed
	}
	next := (b.head + 1) % len(b.items)
	if next == b.tail {
		return ErrOverflow
	}
	b.items[b.head] = v
	b.head = next
	return nil
}

// Pop removes and returns the oldest item. It fails with ErrUnderflow
// when the buffer is empty.
func (b *Buffer[T]) Pop() (T, error) {
	var zero T
	if b.items == nil {
		return zero, ErrClosed
	}
	if b.head == b.tail {
		return zero, ErrUnderflow
	}
	v := b.items[b.tail]
	// Drop the slot's reference so consumed items aren't pinned.
	b.items[b.tail] = zero
	b.tail = (b.tail + 1) % len(b.items)
	return v, nil
}

// Len returns the number of items currently buffered.
func (b *Buffer[T]) Len() int {
	if b.head >= b.tail {
		return b.head - b.tail
	}
	return b.head + len(b.items) - b.tail
}

// Cap returns the usable capacity, one less than the storage size.
func (b *Buffer[T]) Cap() int {
	if b.items == nil {
		return 0
	}
	return len(b.items) - 1
}

// Empty reports whether the buffer holds no items.
func (b *Buffer[T]) Empty() bool {
	return b.head == b.tail
}

// Full reports whether the next Push would overflow.
func (b *Buffer[T]) Full() bool {
	if b.items == nil {
		return true
	}
	return (b.head+1)%len(b.items) == b.tail
}

// Close releases the storage and resets the cursors. Closing an
// already-closed Buffer is a no-op. Push and Pop on a closed Buffer
// return ErrClosed.
func (b *Buffer[T]) Close() {
	if b.items == nil {
		return
	}
	b.items = nil
	b.head = 0
	b.tail = 0
}
