// Package queue provides the FIFO buffers backing the input reader: one for
// buffered input lines and one for pending asks.
package queue

// Queue is a FIFO over a slice with a logical head index. Push and Shift are
// O(1) amortized; shifted slots are zeroed so the garbage collector can
// reclaim what they referenced, and the backing array is reset once the
// queue drains.
//
// Not goroutine safe, callers that share a Queue must lock around it.
type Queue[T any] struct {
	items []T
	head  int
}

// Push appends one item to the back of the queue.
func (q *Queue[T]) Push(item T) {
	q.items = append(q.items, item)
}

// PushAll appends items to the back of the queue, preserving their order.
func (q *Queue[T]) PushAll(items []T) {
	q.items = append(q.items, items...)
}

// Front returns the logically first item without removing it. The bool is
// false when the queue is empty.
func (q *Queue[T]) Front() (T, bool) {
	if q.head >= len(q.items) {
		var zero T
		return zero, false
	}
	return q.items[q.head], true
}

// Shift removes and returns the logically first item. The bool is false when
// the queue is empty.
func (q *Queue[T]) Shift() (T, bool) {
	if q.head >= len(q.items) {
		var zero T
		return zero, false
	}

	item := q.items[q.head]

	var zero T
	q.items[q.head] = zero
	q.head++

	if q.head == len(q.items) {
		// Drained, reuse the backing array from the start
		q.items = q.items[:0]
		q.head = 0
	}

	return item, true
}

// Len returns the number of items remaining in the queue.
func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}
