// Package pq implements a generic binary heap keyed by a float64 priority,
// with a string tiebreak so equal priorities pop in a deterministic order.
package pq

// Heap is a binary min- or max-heap. The zero value is not usable; construct
// with NewMin or NewMax.
type Heap[T any] struct {
	entries []entry[T]
	min     bool
}

type entry[T any] struct {
	value    T
	priority float64
	tiebreak string
}

// NewMin creates a heap that pops the lowest priority first.
func NewMin[T any]() *Heap[T] {
	return &Heap[T]{min: true}
}

// NewMax creates a heap that pops the highest priority first.
func NewMax[T any]() *Heap[T] {
	return &Heap[T]{}
}

// Len returns the number of queued values.
func (h *Heap[T]) Len() int {
	return len(h.entries)
}

// Push adds a value with the given priority. Values with equal priority pop
// in ascending tiebreak order.
func (h *Heap[T]) Push(value T, priority float64, tiebreak string) {
	h.entries = append(h.entries, entry[T]{value, priority, tiebreak})
	h.siftUp(len(h.entries) - 1)
}

// Pop removes and returns the next value, or the zero value and false when
// the heap is empty.
func (h *Heap[T]) Pop() (T, bool) {
	if len(h.entries) == 0 {
		var zero T
		return zero, false
	}
	top := h.entries[0].value
	last := len(h.entries) - 1
	h.entries[0] = h.entries[last]
	h.entries = h.entries[:last]
	if last > 0 {
		h.siftDown(0)
	}
	return top, true
}

// Peek returns the next value without removing it.
func (h *Heap[T]) Peek() (T, bool) {
	if len(h.entries) == 0 {
		var zero T
		return zero, false
	}
	return h.entries[0].value, true
}

// before reports whether entry i should pop before entry j.
func (h *Heap[T]) before(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if a.priority != b.priority {
		if h.min {
			return a.priority < b.priority
		}
		return a.priority > b.priority
	}
	return a.tiebreak < b.tiebreak
}

func (h *Heap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.before(i, parent) {
			return
		}
		h.entries[i], h.entries[parent] = h.entries[parent], h.entries[i]
		i = parent
	}
}

func (h *Heap[T]) siftDown(i int) {
	n := len(h.entries)
	for {
		best := i
		if l := 2*i + 1; l < n && h.before(l, best) {
			best = l
		}
		if r := 2*i + 2; r < n && h.before(r, best) {
			best = r
		}
		if best == i {
			return
		}
		h.entries[i], h.entries[best] = h.entries[best], h.entries[i]
		i = best
	}
}
