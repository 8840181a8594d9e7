package trace

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Trace is one persisted evaluation outcome.
type Trace struct {
	ID         string
	BatchID    string
	Raw        string
	Expression string
	Active     bool
	Error      string
	Duration   time.Duration
	CreatedAt  time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS traces (
	id          TEXT PRIMARY KEY,
	batch_id    TEXT NOT NULL,
	raw         TEXT NOT NULL,
	expression  TEXT NOT NULL,
	active      INTEGER NOT NULL,
	error       TEXT NOT NULL,
	duration_us INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_traces_batch ON traces(batch_id);
CREATE INDEX IF NOT EXISTS idx_traces_created ON traces(created_at);
`

// Store is a SQLite-backed trace store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	insertStmt *sql.Stmt
}

// OpenStore opens (creating if necessary) the trace database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("trace db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		path, (5 * time.Second).Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trace schema: %w", err)
	}

	insertStmt, err := db.Prepare(`
		INSERT INTO traces (id, batch_id, raw, expression, active, error, duration_us, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare trace insert: %w", err)
	}

	logger := slog.Default().With("component", "trace.store")
	logger.Info("trace store opened", "path", path)

	return &Store{db: db, logger: logger, insertStmt: insertStmt}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert persists one trace. A zero CreatedAt is set to the current
// time.
func (s *Store) Insert(ctx context.Context, t *Trace) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.insertStmt.ExecContext(ctx,
		t.ID, t.BatchID, t.Raw, t.Expression, boolToInt(t.Active), t.Error, t.Duration.Microseconds(), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert trace %s: %w", t.ID, err)
	}
	return nil
}

// Batch returns all traces for a batch, in insertion order.
func (s *Store) Batch(ctx context.Context, batchID string) ([]Trace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, batch_id, raw, expression, active, error, duration_us, created_at
		FROM traces WHERE batch_id = ? ORDER BY rowid
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var traces []Trace
	for rows.Next() {
		var t Trace
		var active int
		var durationUs int64
		if err := rows.Scan(&t.ID, &t.BatchID, &t.Raw, &t.Expression, &active, &t.Error, &durationUs, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trace row: %w", err)
		}
		t.Active = active != 0
		t.Duration = time.Duration(durationUs) * time.Microsecond
		traces = append(traces, t)
	}
	return traces, rows.Err()
}

// DeleteBefore removes traces created before the cutoff and returns the
// number deleted.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM traces WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old traces: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the total number of stored traces.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM traces`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count traces: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
