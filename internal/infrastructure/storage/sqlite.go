package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"svw.info/seating/internal/domain"
)

// SQLite stores progress in a single database file.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS progress (
			player_id TEXT PRIMARY KEY,
			current_level INTEGER NOT NULL,
			last_played_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS completed_levels (
			player_id TEXT NOT NULL REFERENCES progress(player_id) ON DELETE CASCADE,
			level_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			PRIMARY KEY (player_id, level_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_completed_player_seq ON completed_levels(player_id, seq);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Load(ctx context.Context, player string) (domain.Progress, error) {
	p, err := checkPlayer(player)
	if err != nil {
		return domain.Progress{}, err
	}
	var (
		current  int
		playedAt int64
	)
	row := s.db.QueryRowContext(ctx, `SELECT current_level, last_played_at FROM progress WHERE player_id = ?`, p)
	if err := row.Scan(&current, &playedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.DefaultProgress(s.now()), nil
		}
		return domain.Progress{}, fmt.Errorf("load progress: %w", err)
	}
	out := domain.Progress{
		CompletedLevels: []int{},
		CurrentLevel:    current,
		LastPlayedAt:    time.UnixMilli(playedAt).UTC(),
	}
	rows, err := s.db.QueryContext(ctx, `SELECT level_id FROM completed_levels WHERE player_id = ? ORDER BY seq`, p)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("load completed levels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return domain.Progress{}, fmt.Errorf("scan completed level: %w", err)
		}
		out.CompletedLevels = append(out.CompletedLevels, id)
	}
	return out, rows.Err()
}

func (s *SQLite) Save(ctx context.Context, player string, pr domain.Progress) error {
	p, err := checkPlayer(player)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO progress (player_id, current_level, last_played_at) VALUES (?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET current_level = excluded.current_level, last_played_at = excluded.last_played_at`,
		p, pr.CurrentLevel, s.now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM completed_levels WHERE player_id = ?`, p); err != nil {
		return fmt.Errorf("clear completed levels: %w", err)
	}
	seen := make(map[int]bool, len(pr.CompletedLevels))
	for i, id := range pr.CompletedLevels {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO completed_levels (player_id, level_id, seq) VALUES (?, ?, ?)`, p, id, i,
		); err != nil {
			return fmt.Errorf("save completed level %d: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Reset(ctx context.Context, player string) error {
	p, err := checkPlayer(player)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE player_id = ?`, p); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
