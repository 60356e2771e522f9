// Package journal persists dispatch activity to SQLite for post-mortem
// debugging. Only metadata is recorded (event name, delivery mode,
// counters, timestamps) — never payloads, and deliveries never read from
// the journal.
package journal

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/petrijr/relay/pkg/api"
	"github.com/petrijr/relay/pkg/worker"
)

// Record kinds, one per observer hook.
const (
	KindTrigger     = "trigger"
	KindDeliver     = "deliver"
	KindSubscribe   = "subscribe"
	KindUnsubscribe = "unsubscribe"
)

// Record is one persisted trace entry.
type Record struct {
	ID    int64
	Kind  string
	Event string

	// Mode is set for deliver records, empty otherwise.
	Mode string

	// Count carries the fanout for trigger records.
	Count int

	At time.Time
}

// TraceJournal is an api.Observer that appends dispatch records to a
// SQLite table. Observer hooks only enqueue work on a private worker, so
// the dispatch path never waits on the database.
type TraceJournal struct {
	db     *sql.DB
	logger *slog.Logger
	writer *worker.Worker
}

// Ensure TraceJournal implements api.Observer.
var _ api.Observer = (*TraceJournal)(nil)

// New initializes the trace table in db and starts the writer worker.
// The journal does not own db; closing it remains the caller's job.
// If logger is nil, slog.Default() is used for write failures.
func New(db *sql.DB, logger *slog.Logger) (*TraceJournal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	j := &TraceJournal{
		db:     db,
		logger: logger,
	}
	if err := j.initSchema(); err != nil {
		return nil, err
	}
	j.writer = worker.Spawn(nil)
	return j, nil
}

func (j *TraceJournal) initSchema() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS dispatch_trace (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			event TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT '',
			count INTEGER NOT NULL DEFAULT 0,
			at INTEGER NOT NULL
		);
	`)
	return err
}

func (j *TraceJournal) append(kind, event, mode string, count int) {
	at := time.Now().UnixNano()
	err := j.writer.Submit(func() {
		_, execErr := j.db.Exec(`
			INSERT INTO dispatch_trace (kind, event, mode, count, at)
			VALUES (?, ?, ?, ?, ?)`,
			kind, event, mode, count, at,
		)
		if execErr != nil {
			j.logger.Error("trace write failed",
				slog.String("kind", kind),
				slog.String("event", event),
				slog.Any("error", execErr),
			)
		}
	})
	if err != nil {
		// Journal closed; dispatch goes on unrecorded.
		j.logger.Debug("trace dropped after close",
			slog.String("kind", kind),
			slog.String("event", event),
		)
	}
}

func (j *TraceJournal) OnTrigger(event string, fanout int) {
	j.append(KindTrigger, event, "", fanout)
}

func (j *TraceJournal) OnDeliver(event string, mode api.DeliveryMode) {
	j.append(KindDeliver, event, string(mode), 0)
}

func (j *TraceJournal) OnSubscribe(event string) {
	j.append(KindSubscribe, event, "", 0)
}

func (j *TraceJournal) OnUnsubscribe(event string) {
	j.append(KindUnsubscribe, event, "", 0)
}

// Flush blocks until every record enqueued before the call has been
// written, or ctx expires.
func (j *TraceJournal) Flush(ctx context.Context) error {
	barrier := make(chan struct{})
	if err := j.writer.Submit(func() { close(barrier) }); err != nil {
		return err
	}
	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recent returns up to limit records, newest first.
func (j *TraceJournal) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, kind, event, mode, count, at
		FROM dispatch_trace
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var at int64
		if err := rows.Scan(&r.ID, &r.Kind, &r.Event, &r.Mode, &r.Count, &at); err != nil {
			return nil, err
		}
		r.At = time.Unix(0, at)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close drains pending writes and stops the writer worker. The journal
// must not be used as an observer afterwards; records arriving later are
// dropped.
func (j *TraceJournal) Close() error {
	j.writer.Stop()
	<-j.writer.Done()
	return nil
}
