package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/petrijr/cascade/pkg/api"
)

// SQLiteEventStore stores trace events in SQLite.
type SQLiteEventStore struct {
	db *sql.DB
}

// Ensure SQLiteEventStore implements the interface.
var _ api.EventStore = (*SQLiteEventStore)(nil)

func NewSQLiteEventStore(db *sql.DB) (*SQLiteEventStore, error) {
	s := &SQLiteEventStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteEventStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS trace_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			env_id TEXT NOT NULL,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			chain TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT '',
			step TEXT NOT NULL DEFAULT '',
			branch INTEGER NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_trace_events_env_id ON trace_events(env_id, id);
	`)
	return err
}

func (s *SQLiteEventStore) AppendEvent(ctx context.Context, ev api.TraceEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trace_events (env_id, at, type, chain, kind, step, branch, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.EnvID,
		at.UnixNano(),
		string(ev.Type),
		ev.Chain,
		string(ev.Kind),
		ev.Step,
		ev.Branch,
		ev.Detail,
	)
	return err
}

func (s *SQLiteEventStore) ListEvents(ctx context.Context, envID string) ([]api.TraceEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT env_id, at, type, chain, kind, step, branch, detail
		FROM trace_events
		WHERE env_id = ?
		ORDER BY id ASC`, envID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.TraceEvent
	for rows.Next() {
		var (
			id     string
			atN    int64
			typ    string
			chain  string
			kind   string
			step   string
			branch int
			detail string
		)
		if err := rows.Scan(&id, &atN, &typ, &chain, &kind, &step, &branch, &detail); err != nil {
			return nil, err
		}
		out = append(out, api.TraceEvent{
			EnvID:  id,
			At:     time.Unix(0, atN),
			Type:   api.EventType(typ),
			Chain:  chain,
			Kind:   api.Kind(kind),
			Step:   step,
			Branch: branch,
			Detail: detail,
		})
	}
	return out, rows.Err()
}
