package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store archives one row per pipeline run so past briefings and their
// delivery outcomes survive restarts.
type Store struct {
	db *sql.DB
}

type RunRecord struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Success   bool   `json:"success"`
	EmailSent bool   `json:"email_sent"`
	ChatSent  bool   `json:"chat_sent"`
	Error     string `json:"error,omitempty"`
	Briefing  string `json:"briefing,omitempty"`
	CreatedAt string `json:"created_at"`
}

func Open(path string) (*Store, error) {
	if path == "" {
		path = "data/app.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=3000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			success INTEGER NOT NULL,
			email_sent INTEGER NOT NULL,
			chat_sent INTEGER NOT NULL,
			error TEXT,
			briefing TEXT,
			created_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) SaveRun(r RunRecord) error {
	if s == nil || s.db == nil {
		return nil
	}
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().Format(time.RFC3339)
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (timestamp, success, email_sent, chat_sent, error, briefing, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Timestamp, r.Success, r.EmailSent, r.ChatSent, r.Error, r.Briefing, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.db.Query(
		`SELECT id, timestamp, success, email_sent, chat_sent, error, briefing, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Success, &r.EmailSent, &r.ChatSent, &r.Error, &r.Briefing, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows runs: %w", err)
	}
	return out, nil
}
