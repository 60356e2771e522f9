package api

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingObserver) note(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recordingObserver) OnTrigger(event string, fanout int)        { r.note("trigger:" + event) }
func (r *recordingObserver) OnDeliver(event string, mode DeliveryMode) { r.note("deliver:" + string(mode)) }
func (r *recordingObserver) OnSubscribe(event string)                  { r.note("subscribe:" + event) }
func (r *recordingObserver) OnUnsubscribe(event string)                { r.note("unsubscribe:" + event) }

func (r *recordingObserver) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestNewCompositeObserver_FiltersAndFansOut(t *testing.T) {
	t.Parallel()

	require.IsType(t, NoopObserver{}, NewCompositeObserver())
	require.IsType(t, NoopObserver{}, NewCompositeObserver(nil, nil))

	single := &recordingObserver{}
	require.Same(t, single, NewCompositeObserver(nil, single))

	a := &recordingObserver{}
	b := &recordingObserver{}
	c := NewCompositeObserver(a, b)

	c.OnTrigger("e", 2)
	c.OnDeliver("e", DeliverInline)
	c.OnSubscribe("e")
	c.OnUnsubscribe("e")

	want := []string{"trigger:e", "deliver:inline", "subscribe:e", "unsubscribe:e"}
	require.Equal(t, want, a.snapshot())
	require.Equal(t, want, b.snapshot())
}

func TestLoggingObserver_WritesStructuredRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	obs := NewLoggingObserver(logger)
	obs.OnTrigger("ping", 3)
	obs.OnDeliver("ping", DeliverHome)
	obs.OnSubscribe("ping")
	obs.OnUnsubscribe("ping")

	out := buf.String()
	require.Contains(t, out, "msg=trigger")
	require.Contains(t, out, "event=ping")
	require.Contains(t, out, "fanout=3")
	require.Contains(t, out, "mode=home")
	require.Contains(t, out, "msg=unsubscribe")

	// A nil logger must fall back to slog.Default without panicking.
	require.NotPanics(t, func() {
		NewLoggingObserver(nil).OnTrigger("e", 0)
	})
}

func TestDispatchMetrics_CountsThroughDispatch(t *testing.T) {
	t.Parallel()

	metrics := &DispatchMetrics{}
	pub := NewWithObserver(metrics)
	sub := New()

	h := func(Observable, ...any) {}
	require.NoError(t, sub.ListenTo(pub, "e", h))
	require.NoError(t, pub.Trigger("e"))
	require.NoError(t, pub.Trigger("other")) // no subscribers
	require.NoError(t, sub.StopListening(pub, "e", nil))

	snap := metrics.Snapshot()
	require.Equal(t, int64(2), snap.Triggers)
	require.Equal(t, int64(1), snap.Deliveries)
	require.Equal(t, int64(1), snap.InlineDeliveries)
	require.Zero(t, snap.HomeDeliveries)
	require.Zero(t, snap.MainDeliveries)
	require.Equal(t, int64(1), snap.Subscribes)
	require.Equal(t, int64(1), snap.Unsubscribes)
}
