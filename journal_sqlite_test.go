package relay

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/require"
)

// TestSQLiteTraceObserver_SurvivesReopen demonstrates that trace records
// written through the journal remain readable after the database has been
// closed and reopened, e.g. when inspecting a trace from a finished run.
func TestSQLiteTraceObserver_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "relay_trace.db")
	dsn := "file:" + dbPath + "?_journal=WAL"

	// --- Phase 1: record dispatch activity, then shut everything down.

	db1, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)

	trace, err := NewSQLiteTraceObserver(db1, nil)
	require.NoError(t, err)

	home := Spawn(nil)

	pub := NewWithObserver(trace)
	sub := NewOn(home)

	delivered := make(chan struct{})
	require.NoError(t, sub.ListenTo(pub, "ping", func(src Observable, args ...any) {
		close(delivered)
	}))
	require.NoError(t, pub.Trigger("ping", "hi"))

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("delivery never reached the home worker")
	}

	require.NoError(t, trace.Flush(ctx))
	require.NoError(t, trace.Close())
	home.Stop()
	require.NoError(t, db1.Close())

	// --- Phase 2: reopen and inspect.

	db2, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db2.Close()

	trace2, err := NewSQLiteTraceObserver(db2, nil)
	require.NoError(t, err)
	defer trace2.Close()

	records, err := trace2.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first: deliver, trigger, subscribe.
	require.Equal(t, "deliver", records[0].Kind)
	require.Equal(t, string(DeliverHome), records[0].Mode)
	require.Equal(t, "trigger", records[1].Kind)
	require.Equal(t, 1, records[1].Count)
	require.Equal(t, "subscribe", records[2].Kind)
	require.Equal(t, "ping", records[2].Event)
}
