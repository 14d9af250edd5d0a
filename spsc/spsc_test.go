package spsc

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/edgefeed/ringflow/ring"
)

func TestRejectsBadSizes(t *testing.T) {
	if _, err := New[int](0); err != ring.ErrCapacity {
		t.Errorf("New(0): expected ErrCapacity, got %v", err)
	}
	if _, err := New[int](-1); err != ring.ErrCapacity {
		t.Errorf("New(-1): expected ErrCapacity, got %v", err)
	}
}

func TestSingleThreadedFIFO(t *testing.T) {
	r, err := New[int](5)
	if err != nil {
		t.Fatal(err)
	}
	if r.Cap() != 4 {
		t.Fatalf("expected usable capacity 4, got %d", r.Cap())
	}

	if _, ok := r.Pop(); ok {
		t.Error("Pop on a fresh ring should fail")
	}
	for i := 0; i < 4; i++ {
		if !r.Push(i) {
			t.Fatalf("Push %d should succeed", i)
		}
	}
	if r.Push(99) {
		t.Error("Push on a full ring should fail")
	}
	for want := 0; want < 4; want++ {
		v, ok := r.Pop()
		if !ok || v != want {
			t.Fatalf("Pop: expected (%d, true), got (%d, %v)", want, v, ok)
		}
	}
}

// Randomized push/pop sequences checking that Len always matches an
// independently tracked model.
func TestPropertyRandomOps(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		r, err := New[int](17)
		if err != nil {
			t.Fatal(err)
		}

		var model []int
		for i := 0; i < 5000; i++ {
			if rnd.Intn(2) == 0 {
				val := rnd.Intn(100000)
				if r.Push(val) {
					model = append(model, val)
				} else if len(model) != r.Cap() {
					t.Fatalf("seed %d: push failed with %d of %d slots used", seed, len(model), r.Cap())
				}
			} else {
				val, ok := r.Pop()
				if ok {
					if val != model[0] {
						t.Fatalf("seed %d: popped %d, expected %d", seed, val, model[0])
					}
					model = model[1:]
				} else if len(model) != 0 {
					t.Fatalf("seed %d: pop failed with %d items buffered", seed, len(model))
				}
			}
			if r.Len() != len(model) {
				t.Fatalf("seed %d: Len() = %d, model has %d", seed, r.Len(), len(model))
			}
		}
	}
}

// One producer and one consumer running in parallel: every value must
// arrive exactly once and in order.
func TestConcurrentProducerConsumer(t *testing.T) {
	r, err := New[uint64](33)
	if err != nil {
		t.Fatal(err)
	}
	const N = 100000

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := uint64(0); i < N; i++ {
			for !r.Push(i) {
				time.Sleep(time.Microsecond)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for want := uint64(0); want < N; want++ {
			for {
				v, ok := r.Pop()
				if ok {
					if v != want {
						t.Errorf("received %d, expected %d", v, want)
						return
					}
					break
				}
				time.Sleep(time.Microsecond)
			}
		}
	}()
	wg.Wait()

	if r.Len() != 0 {
		t.Errorf("ring should be drained, has %d items", r.Len())
	}
}
