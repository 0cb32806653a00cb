package cascade

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// RecorderBundle wires together an EventStore and a RecordingObserver that
// appends every lifecycle event to it.
type RecorderBundle struct {
	Observer Observer
	Store    EventStore
}

// NewSQLiteRecorder constructs a durable trace recorder backed by the given
// SQLite database. Attach the observer to an Environment and read the
// history back from the store:
//
//	db, _ := cascade.OpenSQLite("file:cascade.db?_journal=WAL")
//	rec, err := cascade.NewSQLiteRecorder(db)
//	env := runner.NewEnv(cascade.WithObserver(rec.Observer))
//	...
//	events, err := rec.Store.ListEvents(ctx, env.ID())
func NewSQLiteRecorder(db *sql.DB) (*RecorderBundle, error) {
	store, err := NewSQLiteEventStore(db)
	if err != nil {
		return nil, err
	}
	return &RecorderBundle{
		Observer: NewRecordingObserver(store),
		Store:    store,
	}, nil
}

// NewMemoryRecorder constructs a non-durable trace recorder, best for tests.
func NewMemoryRecorder() *RecorderBundle {
	store := NewMemoryEventStore()
	return &RecorderBundle{
		Observer: NewRecordingObserver(store),
		Store:    store,
	}
}

// OpenSQLite opens a SQLite database using the pure-Go driver, suitable for
// NewSQLiteEventStore and NewSQLiteRecorder.
func OpenSQLite(dsn string) (*sql.DB, error) {
	return sql.Open("sqlite", dsn)
}
