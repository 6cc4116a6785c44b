// Package storage persists memos and the hot stack order in a local SQLite
// database. The driver is CGo-free (modernc.org/sqlite), so the binary
// stays a single static executable.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lanefield/memostack/pkg/logging"
	"github.com/lanefield/memostack/pkg/memo"
)

const schema = `
CREATE TABLE IF NOT EXISTS memos (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	body          TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'hot',
	created_at    TEXT NOT NULL,
	done_at       TEXT,
	delay_minutes INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS hot_stack (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	stack_json TEXT NOT NULL DEFAULT '[]'
);

INSERT OR IGNORE INTO hot_stack (id, stack_json) VALUES (1, '[]');
`

// Store is a SQLite-backed implementation of memo.Store.
type Store struct {
	db     *sql.DB
	path   string
	logger *logging.Logger
}

// DefaultPath returns the default database location, ~/.memostack/memos.db.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".memostack", "memos.db"), nil
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("storage: create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	// The app is single-user; one connection avoids SQLITE_BUSY surprises.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create schema: %w", err)
	}

	logger, _ := logging.NewLogger("storage")
	return &Store{db: db, path: path, logger: logger}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database.
func (s *Store) Close() error {
	s.logger.Close()
	return s.db.Close()
}

// Load reads all memos and the persisted hot stack order. Corrupt stack
// JSON degrades to an empty order rather than failing startup; stack
// reconciliation against memo state is the manager's job.
func (s *Store) Load() ([]*memo.Memo, []string, error) {
	rows, err := s.db.Query(
		`SELECT id, title, body, status, created_at, done_at, delay_minutes FROM memos`)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: query memos: %w", err)
	}
	defer rows.Close()

	var memos []*memo.Memo
	for rows.Next() {
		var (
			m         memo.Memo
			status    string
			createdAt string
			doneAt    sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Body, &status, &createdAt, &doneAt, &m.DelayMinutes); err != nil {
			return nil, nil, fmt.Errorf("storage: scan memo: %w", err)
		}
		m.Status = memo.ParseStatus(status)
		m.CreatedAt = s.parseTime(createdAt)
		if doneAt.Valid {
			t := s.parseTime(doneAt.String)
			m.DoneAt = &t
		}
		memos = append(memos, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("storage: iterate memos: %w", err)
	}

	var stackJSON string
	if err := s.db.QueryRow(`SELECT stack_json FROM hot_stack WHERE id = 1`).Scan(&stackJSON); err != nil {
		return nil, nil, fmt.Errorf("storage: load stack: %w", err)
	}

	var stack []string
	if err := json.Unmarshal([]byte(stackJSON), &stack); err != nil {
		s.logger.Warnf("corrupt hot stack state, starting empty: %v", err)
		stack = nil
	}

	return memos, stack, nil
}

// InsertMemo persists a newly created memo.
func (s *Store) InsertMemo(m *memo.Memo) error {
	_, err := s.db.Exec(
		`INSERT INTO memos (id, title, body, status, created_at, done_at, delay_minutes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Body, string(m.Status),
		formatTime(m.CreatedAt), formatTimePtr(m.DoneAt), m.DelayMinutes,
	)
	if err != nil {
		return fmt.Errorf("storage: insert memo: %w", err)
	}
	return nil
}

// UpdateMemo rewrites a memo row in full.
func (s *Store) UpdateMemo(m *memo.Memo) error {
	res, err := s.db.Exec(
		`UPDATE memos SET title = ?, body = ?, status = ?, done_at = ?, delay_minutes = ?
		 WHERE id = ?`,
		m.Title, m.Body, string(m.Status), formatTimePtr(m.DoneAt), m.DelayMinutes, m.ID,
	)
	if err != nil {
		return fmt.Errorf("storage: update memo: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: update memo %s: %w", m.ID, memo.ErrNotFound)
	}
	return nil
}

// DeleteMemo removes a memo row permanently.
func (s *Store) DeleteMemo(id string) error {
	if _, err := s.db.Exec(`DELETE FROM memos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("storage: delete memo: %w", err)
	}
	return nil
}

// SaveStack persists the hot stack order as a JSON array of memo IDs.
func (s *Store) SaveStack(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("storage: encode stack: %w", err)
	}
	if _, err := s.db.Exec(`UPDATE hot_stack SET stack_json = ? WHERE id = 1`, string(b)); err != nil {
		return fmt.Errorf("storage: save stack: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// parseTime tolerates unparseable timestamps by substituting now, so a
// damaged row never makes its memo unreachable.
func (s *Store) parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		s.logger.Warnf("unparseable timestamp %q: %v", value, err)
		return time.Now()
	}
	return t.Local()
}
