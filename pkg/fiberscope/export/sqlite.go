package export

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/fiberscope/pkg/fiberscope/errors"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/event"
)

// SQLite persists exported batches to an append-only events table.
// It is suitable for single-process use; each batch is written in one
// transaction under a shared batch id.
type SQLite struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

var _ Exporter = (*SQLite)(nil)

// NewSQLite opens (or creates) the event store at path. Use ":memory:"
// for testing.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Exporter("open event store", err)
	}

	// WAL keeps concurrent readers cheap while batches append.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Exporter("enable WAL mode", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			fiber_id INTEGER NOT NULL,
			task_id INTEGER,
			at TEXT NOT NULL,
			payload TEXT
		)
	`); err != nil {
		db.Close()
		return nil, errors.Exporter("create events table", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_events_kind
		ON events(kind)
	`); err != nil {
		db.Close()
		return nil, errors.Exporter("create kind index", err)
	}

	return &SQLite{db: db}, nil
}

// Export appends the batch inside one transaction.
func (s *SQLite) Export(batch []event.Event) error {
	if len(batch) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.Exporter("export batch", sql.ErrConnDone)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Exporter("begin batch transaction", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO events (batch_id, kind, fiber_id, task_id, at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return errors.Exporter("prepare insert", err)
	}
	defer stmt.Close()

	batchID := uuid.New().String()
	for _, evt := range batch {
		var taskID any
		if evt.HasTask() {
			taskID = evt.TaskID
		}
		var payload any
		if len(evt.Payload) > 0 {
			data, err := json.Marshal(evt.Payload)
			if err != nil {
				tx.Rollback()
				return errors.Exporter("encode payload", err)
			}
			payload = string(data)
		}
		if _, err := stmt.Exec(
			batchID,
			evt.Kind.String(),
			evt.FiberID,
			taskID,
			evt.Time.UTC().Format(time.RFC3339Nano),
			payload,
		); err != nil {
			tx.Rollback()
			return errors.Exporter("insert event row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Exporter("commit batch", err)
	}
	return nil
}

// Count returns the number of stored events.
func (s *SQLite) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, errors.Exporter("count events", err)
	}
	return n, nil
}

// CountByKind returns the number of stored events of one kind.
func (s *SQLite) CountByKind(kind event.Kind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM events WHERE kind = ?", kind.String()).Scan(&n); err != nil {
		return 0, errors.Exporter("count events by kind", err)
	}
	return n, nil
}

// Close releases the underlying database. Export fails afterwards.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
