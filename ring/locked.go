package ring

import "sync"

// Locked wraps a Buffer with a mutex so multiple producers and
// consumers can share it. The whole push/pop critical section is
// guarded; for the one-producer/one-consumer case the lock-free ring
// in package spsc avoids the lock entirely.
type Locked[T any] struct {
	mu  sync.Mutex
	buf *Buffer[T]
}

// NewLocked returns a mutex-guarded ring with the same size rules as New.
func NewLocked[T any](size int) (*Locked[T], error) {
	buf, err := New[T](size)
	if err != nil {
		return nil, err
	}
	return &Locked[T]{buf: buf}, nil
}

func (l *Locked[T]) Push(v T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Push(v)
}

func (l *Locked[T]) Pop() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Pop()
}

func (l *Locked[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Len()
}

func (l *Locked[T]) Cap() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Cap()
}

func (l *Locked[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Close()
}
