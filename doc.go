// Package relay provides a small publish/subscribe primitive in which
// every subscriber is bound to an execution context — its "home" worker —
// and published events are delivered through that context's serialized
// task queue instead of being invoked on an arbitrary goroutine.
//
// # Core Concepts
//
// The relay programming model is intentionally small:
//
//  1. Worker
//  2. Main loop
//  3. Subscribable
//  4. Observer
//
// # Worker
//
// A Worker owns an unbounded FIFO queue of deferred calls and a single
// goroutine that executes them one at a time, in submission order, for the
// worker's entire lifetime. Submitting work never blocks and is safe from
// any goroutine. A process-wide registry tracks live workers; dispatch
// consults it to decide whether a subscriber's home context is usable.
//
// # Main loop
//
// RunMain spawns a worker, publishes it as the process-wide main dispatch
// target, and blocks the caller for as long as that worker runs. It exists
// so that subscribers without a live home context of their own still get
// serialized, off-caller delivery. Before any worker exists, deliveries
// degrade to synchronous execution on the publisher's goroutine.
//
// # Subscribable
//
// Subscribable is a capability attached to host entities by embedding:
//
//	type Thermostat struct {
//	    relay.Subscribable
//	}
//
//	th := &Thermostat{Subscribable: relay.New()}
//
// It grants publishing (Trigger), subscribing to other subscribables or to
// itself (ListenTo, On), unsubscribing with wildcard filters
// (StopListening, Off), and home-context reassignment (MoveTo). For each
// delivery, dispatch picks the execution context by a fixed precedence:
// the subscriber's home worker if live, else the main worker if running,
// else inline on the publisher's goroutine.
//
// Within one worker, deliveries execute in submission order. Across
// workers no ordering is guaranteed, deliveries are fire-and-forget, and
// the queues are unbounded by design — backpressure, when needed, belongs
// to the embedding application.
//
// # Observer
//
// Dispatch activity can be observed for logging and metrics. The package
// ships a structured-logging observer (log/slog), an atomic counter set
// (DispatchMetrics), a composite fan-out, and a SQLite-backed trace
// journal that records dispatch metadata for post-mortem debugging.
//
// # Failure policy
//
// Argument errors (empty event name, missing capability, nil handler) are
// returned synchronously at the call site and never deferred into a queue.
// A panic escaping a handler is not recovered: it crashes the worker
// goroutine visibly. Integrations that want isolation wrap their handlers.
package relay
