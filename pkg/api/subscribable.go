package api

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/petrijr/relay/pkg/worker"
)

var (
	// ErrEmptyEvent is returned when an event name is empty.
	ErrEmptyEvent = errors.New("relay: event name must not be empty")

	// ErrNotSubscribable is returned when a target does not carry the
	// subscribable capability (nil, or a zero-value Subscribable).
	ErrNotSubscribable = errors.New("relay: target does not carry the subscribable capability")

	// ErrNilHandler is returned when no handler is supplied to an API that
	// requires one.
	ErrNilHandler = errors.New("relay: handler must not be nil")
)

// Handler is invoked with the publishing Subscribable and the arguments
// passed to Trigger. It runs on the execution context resolved by dispatch,
// which is not necessarily the publisher's goroutine.
type Handler func(source Observable, args ...any)

// Observable marks a value carrying the subscribable capability. It is
// satisfied by Subscribable and by any type embedding one.
type Observable interface {
	capability() *hub
}

// hub is the per-instance subscription state. All four structural fields
// (home, observers, observables, and the lists' contents) are guarded by mu.
// seq establishes a process-wide total order used to take two hubs' locks
// without deadlocking.
type hub struct {
	seq uint64
	obs Observer

	mu          sync.Mutex
	home        *worker.Worker
	observers   []edge // who listens to me
	observables []edge // what I listen to
}

// edge is one subscription relationship. The same value is stored on both
// sides: as an observer entry on the observable, and as an observable entry
// on the observer.
type edge struct {
	observer   *hub
	observable *hub
	event      string
	handler    Handler
	hptr       uintptr
}

func (e edge) matches(target *hub, event string, hptr uintptr) bool {
	if target != nil && e.observable != target {
		return false
	}
	if event != "" && e.event != event {
		return false
	}
	if hptr != 0 && e.hptr != hptr {
		return false
	}
	return true
}

// handlerPointer identifies a handler for removal. Closures created from
// the same function literal share a code pointer and therefore compare
// equal; callers that need to remove one of several identical closures
// should filter by event or observable instead.
func handlerPointer(h Handler) uintptr {
	return reflect.ValueOf(h).Pointer()
}

var hubSeq atomic.Uint64

// Subscribable grants publish/subscribe behavior to a host entity. It is a
// small handle around shared state: copies of the same Subscribable refer
// to the same subscriptions and compare equal with ==.
type Subscribable struct {
	h *hub
}

// New returns a fresh Subscribable with no home context. Until MoveTo
// assigns one, deliveries to this instance fall back to the main worker,
// or run inline when no main worker exists.
func New() Subscribable {
	return NewWithObserver(nil)
}

// NewOn returns a fresh Subscribable whose incoming handlers run on the
// given worker by default.
func NewOn(home *worker.Worker) Subscribable {
	s := NewWithObserver(nil)
	s.h.home = home
	return s
}

// NewWithObserver returns a fresh Subscribable whose dispatch activity is
// reported to obs. A nil obs means no observation.
func NewWithObserver(obs Observer) Subscribable {
	if obs == nil {
		obs = NoopObserver{}
	}
	return Subscribable{h: &hub{seq: hubSeq.Add(1), obs: obs}}
}

func (s Subscribable) capability() *hub { return s.h }

// Is reports whether o refers to the same underlying instance as s.
func (s Subscribable) Is(o Observable) bool {
	return o != nil && s.h != nil && o.capability() == s.h
}

func capabilityOf(o Observable) (*hub, error) {
	if o == nil {
		return nil, ErrNotSubscribable
	}
	h := o.capability()
	if h == nil {
		return nil, ErrNotSubscribable
	}
	return h, nil
}

// lockPair acquires both hubs' locks in creation order. a and b must be
// distinct.
func lockPair(a, b *hub) {
	if a.seq < b.seq {
		a.mu.Lock()
		b.mu.Lock()
	} else {
		b.mu.Lock()
		a.mu.Lock()
	}
}

func unlockPair(a, b *hub) {
	a.mu.Unlock()
	b.mu.Unlock()
}

// register appends an observer entry. It is the registration entry point
// reserved for collaborating subscribables; the caller must hold h.mu.
func (h *hub) register(e edge) {
	h.observers = append(h.observers, e)
}

// deregister removes one observer entry equal to e, if present. The caller
// must hold h.mu.
func (h *hub) deregister(e edge) bool {
	return removeEdge(&h.observers, e)
}

func removeEdge(list *[]edge, e edge) bool {
	for i, cand := range *list {
		if cand.observer == e.observer && cand.observable == e.observable &&
			cand.event == e.event && cand.hptr == e.hptr {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// ListenTo subscribes s to the given event on observable. The handler runs
// on s's home context when the observable triggers the event.
func (s Subscribable) ListenTo(observable Observable, event string, h Handler) error {
	self := s.h
	if self == nil {
		return ErrNotSubscribable
	}
	other, err := capabilityOf(observable)
	if err != nil {
		return err
	}
	if event == "" {
		return ErrEmptyEvent
	}
	if h == nil {
		return ErrNilHandler
	}

	e := edge{
		observer:   self,
		observable: other,
		event:      event,
		handler:    h,
		hptr:       handlerPointer(h),
	}

	if other == self {
		// Self-subscription: both halves live on this instance, one lock
		// acquisition suffices.
		self.mu.Lock()
		self.observables = append(self.observables, e)
		self.register(e)
		self.mu.Unlock()
	} else {
		lockPair(self, other)
		self.observables = append(self.observables, e)
		other.register(e)
		unlockPair(self, other)
	}

	// The observable's observer sees who subscribes against it, matching
	// OnTrigger/OnDeliver which also report from the observable's side.
	other.obs.OnSubscribe(event)
	return nil
}

// On subscribes s to its own event. Sugar for ListenTo(s, event, h).
func (s Subscribable) On(event string, h Handler) error {
	return s.ListenTo(s, event, h)
}

// StopListening removes s's subscriptions matching the given filters. A nil
// observable, empty event, or nil handler each match everything for that
// field; calling with no matching subscriptions is a no-op.
func (s Subscribable) StopListening(observable Observable, event string, h Handler) error {
	self := s.h
	if self == nil {
		return ErrNotSubscribable
	}

	var target *hub
	if observable != nil {
		t, err := capabilityOf(observable)
		if err != nil {
			return err
		}
		target = t
	}

	var hptr uintptr
	if h != nil {
		hptr = handlerPointer(h)
	}

	for {
		e, ok := self.firstMatch(target, event, hptr)
		if !ok {
			break
		}
		if s.detach(e) {
			e.observable.obs.OnUnsubscribe(e.event)
		}
	}
	return nil
}

// Off removes s's self-subscriptions matching the filters. Sugar for
// StopListening(s, event, h).
func (s Subscribable) Off(event string, h Handler) error {
	return s.StopListening(s, event, h)
}

// firstMatch returns a copy of the first observable entry matching the
// filters, under the hub's lock.
func (h *hub) firstMatch(target *hub, event string, hptr uintptr) (edge, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.observables {
		if e.matches(target, event, hptr) {
			return e, true
		}
	}
	return edge{}, false
}

// detach removes one instance of e from both sides of the relationship.
// Returns false when a concurrent remover got there first.
func (s Subscribable) detach(e edge) bool {
	self := s.h

	if e.observable == self {
		self.mu.Lock()
		defer self.mu.Unlock()
		if !removeEdge(&self.observables, e) {
			return false
		}
		self.deregister(e)
		return true
	}

	lockPair(self, e.observable)
	defer unlockPair(self, e.observable)
	if !removeEdge(&self.observables, e) {
		return false
	}
	e.observable.deregister(e)
	return true
}

// Trigger publishes an event to every subscriber registered for it at the
// moment of the call. Worker-bound deliveries are fire-and-forget; only the
// inline fallback runs handlers on the calling goroutine.
func (s Subscribable) Trigger(event string, args ...any) error {
	self := s.h
	if self == nil {
		return ErrNotSubscribable
	}
	if event == "" {
		return ErrEmptyEvent
	}

	self.mu.Lock()
	var matched []edge
	for _, e := range self.observers {
		if e.event == event {
			matched = append(matched, e)
		}
	}
	self.mu.Unlock()

	self.obs.OnTrigger(event, len(matched))

	for _, e := range matched {
		s.deliver(e, args)
	}
	return nil
}

// deliver resolves the execution context for one subscriber and hands the
// handler over: home worker if live, else main worker, else inline. A
// worker that stops between the liveness check and Submit is treated like a
// dead one.
func (s Subscribable) deliver(e edge, args []any) {
	h := e.handler
	task := func() { h(s, args...) }

	e.observer.mu.Lock()
	home := e.observer.home
	e.observer.mu.Unlock()

	if home != nil && home.Alive() {
		if home.Submit(task) == nil {
			s.h.obs.OnDeliver(e.event, DeliverHome)
			return
		}
	}
	if m := worker.Main(); m != nil {
		if m.Submit(task) == nil {
			s.h.obs.OnDeliver(e.event, DeliverMain)
			return
		}
	}
	s.h.obs.OnDeliver(e.event, DeliverInline)
	task()
}

// MoveTo changes the worker that s's incoming handlers run on. The change
// applies to future triggers only; deliveries already enqueued stay where
// they are.
func (s Subscribable) MoveTo(w *worker.Worker) error {
	if s.h == nil {
		return ErrNotSubscribable
	}
	s.h.mu.Lock()
	s.h.home = w
	s.h.mu.Unlock()
	return nil
}

// Home returns s's current home worker, or nil when none is assigned.
func (s Subscribable) Home() *worker.Worker {
	if s.h == nil {
		return nil
	}
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	return s.h.home
}

// Subscription describes one active subscription held by an observer.
type Subscription struct {
	Source Subscribable
	Event  string
}

// Subscriptions returns what s is currently listening to.
func (s Subscribable) Subscriptions() []Subscription {
	if s.h == nil {
		return nil
	}
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	out := make([]Subscription, 0, len(s.h.observables))
	for _, e := range s.h.observables {
		out = append(out, Subscription{
			Source: Subscribable{h: e.observable},
			Event:  e.event,
		})
	}
	return out
}
