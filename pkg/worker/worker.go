package worker

import (
	"errors"
	"sync"

	"github.com/petrijr/relay/internal/taskqueue"
)

var (
	// ErrNilTask is returned by Submit when no executable unit is supplied.
	ErrNilTask = errors.New("worker: nil task")

	// ErrStopped is returned by Submit once the worker has been stopped.
	ErrStopped = errors.New("worker: stopped")
)

// Task is a deferred call executed on a worker goroutine.
type Task func()

// Worker executes submitted tasks strictly in FIFO order on a single
// dedicated goroutine. The queue is unbounded: Submit never blocks.
type Worker struct {
	queue *taskqueue.FIFO
	done  chan struct{}
}

// Process-wide registry of running workers, queried by dispatch to decide
// whether a home context is still usable.
var (
	liveMu sync.RWMutex
	live   = make(map[*Worker]struct{})
)

func register(w *Worker) {
	liveMu.Lock()
	defer liveMu.Unlock()
	live[w] = struct{}{}
}

func unregister(w *Worker) {
	liveMu.Lock()
	defer liveMu.Unlock()
	delete(live, w)
}

// Spawn starts a new worker. If initial is non-nil it runs first, on the
// worker goroutine, before the queue loop begins consuming submissions.
// The worker is registered as live before Spawn returns.
func Spawn(initial Task) *Worker {
	w := &Worker{
		queue: taskqueue.New(),
		done:  make(chan struct{}),
	}
	register(w)
	go w.run(initial)
	return w
}

func (w *Worker) run(initial Task) {
	// Unregister on any exit, including a panicking task. The panic itself
	// is not recovered: a crashing task crashes the worker goroutine.
	defer func() {
		unregister(w)
		close(w.done)
	}()

	if initial != nil {
		initial()
	}

	for {
		fn, ok := w.queue.Pop()
		if !ok {
			return
		}
		fn()
	}
}

// Submit appends t to the worker's queue. It is safe to call from any
// goroutine, including the worker's own, and never blocks.
func (w *Worker) Submit(t Task) error {
	if t == nil {
		return ErrNilTask
	}
	if err := w.queue.Push(t); err != nil {
		return ErrStopped
	}
	return nil
}

// Alive reports whether the worker is currently in the live registry: its
// goroutine has started and not yet exited.
func (w *Worker) Alive() bool {
	liveMu.RLock()
	defer liveMu.RUnlock()
	_, ok := live[w]
	return ok
}

// Stop closes the worker's queue. Tasks already submitted still run; once
// the queue drains, the goroutine exits and Alive becomes false. Stop is
// idempotent and does not wait; use Done to observe the exit.
func (w *Worker) Stop() {
	w.queue.Close()
}

// Done returns a channel closed when the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Pending returns the number of tasks waiting in the queue.
func (w *Worker) Pending() int {
	return w.queue.Len()
}
