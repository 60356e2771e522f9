// Package taskqueue implements the unbounded FIFO mailbox backing each
// worker. Producers push deferred calls from any goroutine; a single
// consumer pops them in submission order, blocking while the queue is
// empty.
package taskqueue

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Push after Close has been called.
var ErrClosed = errors.New("taskqueue: queue closed")

// FIFO is an unbounded multi-producer, single-consumer queue of deferred
// calls. There is deliberately no depth limit: producers never block, and
// backpressure is left to the embedding application.
type FIFO struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []func()
	closed bool
}

// New returns an empty, open queue.
func New() *FIFO {
	q := &FIFO{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends fn to the queue and wakes the consumer. It never blocks.
// Returns ErrClosed if the queue has been closed.
func (q *FIFO) Push(fn func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, fn)
	q.cond.Signal()
	return nil
}

// Pop removes and returns the oldest queued call, blocking while the queue
// is empty. Once the queue is closed and drained, Pop returns (nil, false).
func (q *FIFO) Pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		if q.closed {
			return nil, false
		}
		q.cond.Wait()
	}

	fn := q.items[0]
	// Slide rather than re-slice so the backing array does not pin
	// already-executed tasks.
	copy(q.items, q.items[1:])
	q.items[len(q.items)-1] = nil
	q.items = q.items[:len(q.items)-1]
	return fn, true
}

// Close rejects further pushes. Already-queued calls remain poppable; the
// consumer drains them and then observes the closed state.
func (q *FIFO) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of queued calls.
func (q *FIFO) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
