package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
)

const stateKey = "machine"

// SQLite persists the newest snapshot in a single-row table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the state database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS machine_state (
	id TEXT PRIMARY KEY,
	version INTEGER NOT NULL,
	state_json TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize machine state schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Load(ctx context.Context) (model.Snapshot, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT state_json FROM machine_state WHERE id = ?`, stateKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Snapshot{}, false, nil
		}
		return model.Snapshot{}, false, fmt.Errorf("query machine state: %w", err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return model.Snapshot{}, false, fmt.Errorf("decode machine state: %w", err)
	}
	return snap, true, nil
}

// Save writes snap when its version is newer than the stored one.
func (s *SQLite) Save(ctx context.Context, snap model.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal machine state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO machine_state (id, version, state_json, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		 version = excluded.version,
		 state_json = excluded.state_json,
		 updated_at = excluded.updated_at
		 WHERE excluded.version > machine_state.version`,
		stateKey,
		int64(snap.Version),
		string(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save machine state: %w", err)
	}
	return nil
}

// openDB opens a SQLite database with WAL journaling and a busy timeout.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return db, nil
}
