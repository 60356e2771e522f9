// Package worker provides the execution contexts that relay delivers
// events through.
//
// A Worker owns an unbounded FIFO queue of deferred calls and a single
// goroutine that executes them one at a time, in submission order, for the
// worker's entire lifetime. Submitting work is safe from any goroutine,
// including the worker's own.
//
// # Lifecycle
//
// Workers are created with Spawn, optionally with an initial task that runs
// on the worker goroutine before the queue loop starts. A process-wide live
// registry tracks running workers; Alive reports whether a worker's
// goroutine has started and not yet exited. Stop closes the queue: already
// submitted tasks drain, then the goroutine exits and the worker leaves the
// registry.
//
// # Failure policy
//
// A panic escaping a task is not recovered. The worker goroutine crashes
// visibly rather than swallowing the failure; callers that want isolation
// wrap their tasks.
//
// # Main loop
//
// RunMain spawns a worker, publishes it as the process-wide main dispatch
// target, and blocks the caller for as long as that worker runs. Event
// deliveries fall back to the main worker when a subscriber has no live
// home context of its own. Main returns the current singleton (nil before
// RunMain); ResetMain stops and clears it, which tests use to isolate the
// global state.
package worker
