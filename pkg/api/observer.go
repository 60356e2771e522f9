package api

import (
	"log/slog"
	"sync/atomic"
)

// DeliveryMode identifies the execution context a handler was handed to.
type DeliveryMode string

const (
	// DeliverHome means the handler was enqueued on the subscriber's own
	// home worker.
	DeliverHome DeliveryMode = "home"

	// DeliverMain means the handler was enqueued on the process-wide main
	// worker because the subscriber had no live home context.
	DeliverMain DeliveryMode = "main"

	// DeliverInline means the handler ran synchronously on the publisher's
	// calling goroutine because no worker was available.
	DeliverInline DeliveryMode = "inline"
)

// Observer receives callbacks from the dispatcher for logging and metrics.
//
// Hooks fire on the publisher's goroutine, inside the dispatch path.
// Implementations should be fast and non-blocking; heavy work should be
// done asynchronously so as not to delay event delivery.
type Observer interface {
	// OnTrigger is called once per Trigger call, with the number of
	// matching subscribers at the moment of the call.
	OnTrigger(event string, fanout int)

	// OnDeliver is called once per handler delivery, after the execution
	// context has been resolved.
	OnDeliver(event string, mode DeliveryMode)

	// OnSubscribe is called after a subscription has been registered
	// against the observed instance.
	OnSubscribe(event string)

	// OnUnsubscribe is called once per subscription removed from the
	// observed instance.
	OnUnsubscribe(event string)
}

// NoopObserver is an Observer that does nothing. It is used as the default
// when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnTrigger(event string, fanout int)        {}
func (NoopObserver) OnDeliver(event string, mode DeliveryMode) {}
func (NoopObserver) OnSubscribe(event string)                  {}
func (NoopObserver) OnUnsubscribe(event string)                {}

// CompositeObserver fans out callbacks to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards callbacks to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnTrigger(event string, fanout int) {
	for _, o := range c.observers {
		o.OnTrigger(event, fanout)
	}
}

func (c *CompositeObserver) OnDeliver(event string, mode DeliveryMode) {
	for _, o := range c.observers {
		o.OnDeliver(event, mode)
	}
}

func (c *CompositeObserver) OnSubscribe(event string) {
	for _, o := range c.observers {
		o.OnSubscribe(event)
	}
}

func (c *CompositeObserver) OnUnsubscribe(event string) {
	for _, o := range c.observers {
		o.OnUnsubscribe(event)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs dispatch activity using
// the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnTrigger(event string, fanout int) {
	o.Logger.Debug("trigger",
		slog.String("event", event),
		slog.Int("fanout", fanout),
	)
}

func (o *LoggingObserver) OnDeliver(event string, mode DeliveryMode) {
	o.Logger.Debug("deliver",
		slog.String("event", event),
		slog.String("mode", string(mode)),
	)
}

func (o *LoggingObserver) OnSubscribe(event string) {
	o.Logger.Debug("subscribe",
		slog.String("event", event),
	)
}

func (o *LoggingObserver) OnUnsubscribe(event string) {
	o.Logger.Debug("unsubscribe",
		slog.String("event", event),
	)
}

// DispatchMetrics collects simple counters for dispatch activity. It
// implements Observer and can be combined with LoggingObserver via
// NewCompositeObserver.
type DispatchMetrics struct {
	NoopObserver

	triggers         atomic.Int64
	homeDeliveries   atomic.Int64
	mainDeliveries   atomic.Int64
	inlineDeliveries atomic.Int64
	subscribes       atomic.Int64
	unsubscribes     atomic.Int64
}

// DispatchMetricsSnapshot is an immutable snapshot of DispatchMetrics.
type DispatchMetricsSnapshot struct {
	Triggers int64

	Deliveries       int64
	HomeDeliveries   int64
	MainDeliveries   int64
	InlineDeliveries int64

	Subscribes   int64
	Unsubscribes int64
}

func (m *DispatchMetrics) OnTrigger(event string, fanout int) {
	m.triggers.Add(1)
}

func (m *DispatchMetrics) OnDeliver(event string, mode DeliveryMode) {
	switch mode {
	case DeliverHome:
		m.homeDeliveries.Add(1)
	case DeliverMain:
		m.mainDeliveries.Add(1)
	case DeliverInline:
		m.inlineDeliveries.Add(1)
	}
}

func (m *DispatchMetrics) OnSubscribe(event string) {
	m.subscribes.Add(1)
}

func (m *DispatchMetrics) OnUnsubscribe(event string) {
	m.unsubscribes.Add(1)
}

// Snapshot returns a snapshot of the current counters.
func (m *DispatchMetrics) Snapshot() DispatchMetricsSnapshot {
	home := m.homeDeliveries.Load()
	main := m.mainDeliveries.Load()
	inline := m.inlineDeliveries.Load()

	return DispatchMetricsSnapshot{
		Triggers:         m.triggers.Load(),
		Deliveries:       home + main + inline,
		HomeDeliveries:   home,
		MainDeliveries:   main,
		InlineDeliveries: inline,
		Subscribes:       m.subscribes.Load(),
		Unsubscribes:     m.unsubscribes.Load(),
	}
}
