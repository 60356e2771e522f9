// Package api contains the core building blocks of the relay
// publish/subscribe primitive: the Subscribable capability, the dispatch
// algorithm, and the observability hooks around it.
//
// Most users interact with the higher-level relay package, which re-exports
// selected types and helpers from this package. The api package is intended
// for advanced use cases and for contributors extending the dispatcher.
//
// # The Subscribable capability
//
// A Subscribable grants a host entity the ability to publish events, listen
// to other subscribables (including itself), and choose the execution
// context its incoming handlers run on. Hosts attach the capability
// explicitly by embedding a value obtained from New, NewOn, or
// NewWithObserver:
//
//	type Sensor struct {
//	    api.Subscribable
//	}
//
//	s := &Sensor{Subscribable: api.New()}
//
// The zero value carries no capability; every operation on it fails with
// ErrNotSubscribable. There is no implicit interception of construction —
// attaching the capability is always an explicit step taken by the host.
//
// # Dispatch
//
// Trigger looks up the handlers registered for an event and, for each one,
// resolves the execution context that runs it:
//
//  1. the subscriber's home worker, if it is live,
//  2. otherwise the process-wide main worker, if one is running,
//  3. otherwise inline, on the publisher's own goroutine.
//
// Deliveries through a worker are fire-and-forget: Trigger never waits for
// handlers to complete. The set of handlers invoked is the set registered
// at the moment the publisher's lock was taken; concurrent registrations
// are not retroactively included.
//
// # Locking
//
// Each instance guards its subscription lists and home context with one
// mutex. Cross-instance registration takes both mutexes in creation-order,
// so two entities subscribing to each other concurrently cannot deadlock.
package api
