// Package sqlite provides a SQLite-backed logbook storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlitemigrate "github.com/louisbranch/finalfrontier/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/ledger"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/storage"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists award logs in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Open opens a SQLite logbook store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Migrations lists the applied schema migrations in order.
func (s *Store) Migrations(ctx context.Context) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return sqlitemigrate.Applied(ctx, s.sqlDB)
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// Save replaces every record of session with entries.
func (s *Store) Save(ctx context.Context, session string, entries []ledger.LogbookEntry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	session = strings.TrimSpace(session)
	if session == "" {
		return fmt.Errorf("session id is required")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.touchSession(ctx, tx, session); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM logbook_entries WHERE session_id = ?`, session); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return insertEntries(ctx, tx, session, 0, entries)
	})
}

// Append adds entries after the records already stored for session.
func (s *Store) Append(ctx context.Context, session string, entries []ledger.LogbookEntry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	session = strings.TrimSpace(session)
	if session == "" {
		return fmt.Errorf("session id is required")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.touchSession(ctx, tx, session); err != nil {
			return err
		}
		var next int64
		row := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(ordinal) + 1, 0) FROM logbook_entries WHERE session_id = ?`, session)
		if err := row.Scan(&next); err != nil {
			return fmt.Errorf("next ordinal: %w", err)
		}
		return insertEntries(ctx, tx, session, next, entries)
	})
}

// Load returns the records of the most recently written session.
func (s *Store) Load(ctx context.Context) (string, []ledger.LogbookEntry, error) {
	if err := s.ready(ctx); err != nil {
		return "", nil, err
	}
	var session string
	row := s.sqlDB.QueryRowContext(ctx, `SELECT id FROM sessions ORDER BY revision DESC LIMIT 1`)
	if err := row.Scan(&session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, storage.ErrNotFound
		}
		return "", nil, fmt.Errorf("latest session: %w", err)
	}
	entries, err := s.LoadSession(ctx, session)
	if err != nil {
		return "", nil, err
	}
	return session, entries, nil
}

// LoadSession returns the records of session in ordinal order.
func (s *Store) LoadSession(ctx context.Context, session string) ([]ledger.LogbookEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, fmt.Errorf("session id is required")
	}
	var exists int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions WHERE id = ?`, session).Scan(&exists); err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if exists == 0 {
		return nil, storage.ErrNotFound
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT game_time, code, subject, data
		   FROM logbook_entries
		  WHERE session_id = ?
		  ORDER BY ordinal ASC`, session)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	entries := []ledger.LogbookEntry{}
	for rows.Next() {
		var e ledger.LogbookEntry
		if err := rows.Scan(&e.Time, &e.Code, &e.Name, &e.Data); err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return entries, nil
}

// Sessions lists stored sessions, most recently written first.
func (s *Store) Sessions(ctx context.Context) ([]storage.Session, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT s.id, s.created_at, s.updated_at, COUNT(e.ordinal)
		   FROM sessions s
		   LEFT JOIN logbook_entries e ON e.session_id = s.id
		  GROUP BY s.id
		  ORDER BY s.revision DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []storage.Session
	for rows.Next() {
		var (
			session   storage.Session
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(&session.ID, &createdAt, &updatedAt, &session.Records); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		session.CreatedAt = fromMillis(createdAt)
		session.UpdatedAt = fromMillis(updatedAt)
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// touchSession creates session or bumps it to the newest revision.
func (s *Store) touchSession(ctx context.Context, tx *sql.Tx, session string) error {
	now := toMillis(s.now())
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, revision, created_at, updated_at)
		 VALUES (?, (SELECT COALESCE(MAX(revision), 0) + 1 FROM sessions), ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   revision = (SELECT COALESCE(MAX(revision), 0) + 1 FROM sessions),
		   updated_at = excluded.updated_at`,
		session, now, now)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, session string, start int64, entries []ledger.LogbookEntry) error {
	if len(entries) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO logbook_entries (session_id, ordinal, game_time, code, subject, data)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, session, start+int64(i), e.Time, e.Code, e.Name, e.Data); err != nil {
			return fmt.Errorf("insert logbook entry %d: %w", i, err)
		}
	}
	return nil
}

var _ storage.LogbookStore = (*Store)(nil)
