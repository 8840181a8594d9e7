package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sigil-hq/sigil/pkg/config"
	"sigil-hq/sigil/pkg/lang/regexsafe"
)

// Fact is a stored fact row.
type Fact struct {
	Subject   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a SQLite-backed fact store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	putStmt    *sql.Stmt
	getStmt    *sql.Stmt
	deleteStmt *sql.Stmt
	hasStmt    *sql.Stmt
}

// Open opens (creating if necessary) the fact database at cfg.Path.
func Open(cfg config.StoreConfig) (*Store, error) {
	logger := slog.Default().With("component", "store")

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fact store: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.initialize(cfg); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("fact store opened", "path", cfg.Path)
	return s, nil
}

func (s *Store) initialize(cfg config.StoreConfig) error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	busyTimeout := cfg.BusyTimeout.Std()
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("schema version mismatch: expected %d, got %d", SchemaVersion, version)
	}
	return nil
}

func (s *Store) prepare() error {
	var err error
	if s.putStmt, err = s.db.Prepare(`
		INSERT INTO facts (subject, content) VALUES (?, ?)
		ON CONFLICT(subject) DO UPDATE SET content = excluded.content, updated_at = CURRENT_TIMESTAMP
	`); err != nil {
		return fmt.Errorf("failed to prepare put statement: %w", err)
	}
	if s.getStmt, err = s.db.Prepare(`
		SELECT subject, content, created_at, updated_at FROM facts WHERE subject = ?
	`); err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}
	if s.deleteStmt, err = s.db.Prepare(`DELETE FROM facts WHERE subject = ?`); err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	if s.hasStmt, err = s.db.Prepare(`SELECT 1 FROM facts WHERE subject = ? LIMIT 1`); err != nil {
		return fmt.Errorf("failed to prepare has statement: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or updates a fact.
func (s *Store) Put(ctx context.Context, subject, content string) error {
	if subject == "" {
		return fmt.Errorf("fact subject must not be empty")
	}
	if _, err := s.putStmt.ExecContext(ctx, subject, content); err != nil {
		return fmt.Errorf("failed to store fact %q: %w", subject, err)
	}
	return nil
}

// Get returns a fact by subject. The second return value is false when
// no such fact exists.
func (s *Store) Get(ctx context.Context, subject string) (*Fact, bool, error) {
	var f Fact
	err := s.getStmt.QueryRowContext(ctx, subject).Scan(&f.Subject, &f.Content, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load fact %q: %w", subject, err)
	}
	return &f, true, nil
}

// Delete removes a fact. Deleting a missing fact is not an error.
func (s *Store) Delete(ctx context.Context, subject string) error {
	if _, err := s.deleteStmt.ExecContext(ctx, subject); err != nil {
		return fmt.Errorf("failed to delete fact %q: %w", subject, err)
	}
	return nil
}

// Has reports whether a fact with exactly this subject exists.
func (s *Store) Has(ctx context.Context, subject string) (bool, error) {
	var one int
	err := s.hasStmt.QueryRowContext(ctx, subject).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check fact %q: %w", subject, err)
	}
	return true, nil
}

// List returns all facts ordered by subject.
func (s *Store) List(ctx context.Context) ([]Fact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject, content, created_at, updated_at FROM facts ORDER BY subject
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var f Fact
		if err := rows.Scan(&f.Subject, &f.Content, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fact row: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// Match reports whether any stored subject matches the pattern. The
// pattern is structurally validated before compilation, so callers can
// pass author-supplied patterns directly.
func (s *Store) Match(ctx context.Context, pattern string) (bool, error) {
	if err := regexsafe.Validate(pattern); err != nil {
		return false, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT subject FROM facts`)
	if err != nil {
		return false, fmt.Errorf("failed to scan fact subjects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return false, fmt.Errorf("failed to scan fact row: %w", err)
		}
		ok, err := regexsafe.MatchString(pattern, subject)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, rows.Err()
}

// HasFactFunc adapts the store to the lookup function the base
// evaluation context expects. An exact subject hit short-circuits the
// pattern scan.
func (s *Store) HasFactFunc(ctx context.Context) func(pattern string) (bool, error) {
	return func(pattern string) (bool, error) {
		ok, err := s.Has(ctx, pattern)
		if err != nil || ok {
			return ok, err
		}
		return s.Match(ctx, pattern)
	}
}
