package relay

import (
	"database/sql"
	"log/slog"

	"github.com/petrijr/relay/internal/journal"
)

// TraceJournal is an Observer persisting dispatch metadata to SQLite.
type TraceJournal = journal.TraceJournal

// TraceRecord is one persisted dispatch trace entry.
type TraceRecord = journal.Record

// NewSQLiteTraceObserver initializes the trace schema in db and returns a
// journal that records dispatch activity there. Writes happen on a private
// worker, so observer hooks never wait on the database. The journal does
// not own db.
//
// Typical usage:
//
//	db, _ := sql.Open("sqlite", "file:relay_trace.db?_journal=WAL")
//	trace, err := relay.NewSQLiteTraceObserver(db, nil)
//	s := relay.NewWithObserver(trace)
func NewSQLiteTraceObserver(db *sql.DB, logger *slog.Logger) (*TraceJournal, error) {
	return journal.New(db, logger)
}
