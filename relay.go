package relay

import (
	"github.com/petrijr/relay/pkg/api"
	"github.com/petrijr/relay/pkg/worker"
)

// Re-export key types so users don't need to dig into pkg/api and
// pkg/worker.

type (
	Subscribable            = api.Subscribable
	Observable              = api.Observable
	Handler                 = api.Handler
	Subscription            = api.Subscription
	Observer                = api.Observer
	DeliveryMode            = api.DeliveryMode
	NoopObserver            = api.NoopObserver
	CompositeObserver       = api.CompositeObserver
	LoggingObserver         = api.LoggingObserver
	DispatchMetrics         = api.DispatchMetrics
	DispatchMetricsSnapshot = api.DispatchMetricsSnapshot

	Worker = worker.Worker
	Task   = worker.Task
)

// Re-export delivery modes for convenience.

const (
	DeliverHome   = api.DeliverHome
	DeliverMain   = api.DeliverMain
	DeliverInline = api.DeliverInline
)

// Re-export the error taxonomy.

var (
	ErrEmptyEvent      = api.ErrEmptyEvent
	ErrNotSubscribable = api.ErrNotSubscribable
	ErrNilHandler      = api.ErrNilHandler
	ErrNilTask         = worker.ErrNilTask
	ErrWorkerStopped   = worker.ErrStopped
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

// Subscribable constructors.

// New returns a fresh Subscribable with no home context.
func New() Subscribable {
	return api.New()
}

// NewOn returns a fresh Subscribable homed on the given worker.
func NewOn(home *Worker) Subscribable {
	return api.NewOn(home)
}

// NewWithObserver returns a fresh Subscribable reporting dispatch activity
// to obs.
func NewWithObserver(obs Observer) Subscribable {
	return api.NewWithObserver(obs)
}

// Worker helpers that just forward to the underlying package.

// Spawn starts a new worker; initial (may be nil) runs on the worker
// goroutine before the queue loop begins.
func Spawn(initial Task) *Worker {
	return worker.Spawn(initial)
}

// RunMain publishes a fresh worker as the process-wide main dispatch
// target and blocks the caller until that worker exits.
//
// It is typically called from (or near) the application's main goroutine:
//
//	go app.start()
//	relay.RunMain()
func RunMain() {
	worker.RunMain()
}

// Main returns the process-wide main worker, or nil before RunMain.
func Main() *Worker {
	return worker.Main()
}

// ResetMain stops and clears the main worker. Intended for tests.
func ResetMain() {
	worker.ResetMain()
}
