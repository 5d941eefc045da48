// Package sqlite provides the SQLite debrief archive for stagewhisper.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// StoreConfig configures the SQLite store.
type StoreConfig struct {
	Path     string
	MaxConns int
}

// Store wraps the SQLite connection pool. Live session state never touches
// it; only completed-session debriefs are written here.
type Store struct {
	db *sql.DB
}

// NewStore opens the database and runs migrations.
func NewStore(cfg StoreConfig) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS debriefs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			persona TEXT NOT NULL,
			goal TEXT NOT NULL,
			event_count INTEGER NOT NULL,
			context_json TEXT NOT NULL,
			history_json TEXT NOT NULL,
			started_at_epoch INTEGER NOT NULL,
			ended_at_epoch INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_debriefs_ended ON debriefs(ended_at_epoch DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}
