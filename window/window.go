package window

import "github.com/edgefeed/ringflow/ring"

// History keeps the most recent samples pushed into it, oldest
// evicted first once the window is full. It demonstrates the
// evict-oldest overflow policy on top of a ring.Buffer.
type History struct {
	buf *ring.Buffer[int]
}

// NewHistory returns a History holding the last n samples.
func NewHistory(n int) (*History, error) {
	buf, err := ring.New[int](n + 1)
	if err != nil {
		return nil, err
	}
	return &History{buf: buf}, nil
}

// Push records a sample, evicting the oldest one if the window is full.
func (h *History) Push(sample int) {
	if err := h.buf.Push(sample); err == ring.ErrOverflow {
		h.buf.Pop()
		h.buf.Push(sample)
	}
}

// Samples returns the recorded samples, oldest first.
func (h *History) Samples() []int {
	out := make([]int, 0, h.buf.Len())
	for {
		v, err := h.buf.Pop()
		if err != nil {
			break
		}
		out = append(out, v)
	}
	// Refill so the window survives being read.
	for _, v := range out {
		h.buf.Push(v)
	}
	return out
}

// Returns the mean of a slice of int64.
func Mean(data []int) int {
	sum := 0

	for _, n := range data {
		sum += n
	}

	count := len(data)
	if count > 0 {
		return sum / count
	} else {
		return 0
	}
}

// Given a window of recent latencies, determine if a Change
// Indicator should be generated.
//
// For each 10x over the mean the latest item is, we add a single plus
// sign up to 3.
//
// For each 10x under the mean the latest item is, we add a single
// minus sign up to 3.
//
// Otherwise we return no change indicator.
func CalculateChangeIndicator(data []int, latest int) string {
	mad := Mean(data)

	if len(data) > 0 {
		if latest >= (mad * 1000) {
			return "+++"
		}

		if latest >= (mad * 100) {
			return "++"
		}

		if latest >= (mad * 10) {
			return "+"
		}

		if latest <= (mad / 1000) {
			return "---"
		}

		if latest <= (mad / 100) {
			return "--"
		}

		if latest <= (mad / 10) {
			return "-"
		}
	}

	return ""
}
