package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/arbiterdev/arbiter"
	"github.com/arbiterdev/arbiter/strategy"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS judgments (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	model      TEXT NOT NULL DEFAULT '',
	overall    REAL NOT NULL DEFAULT 0,
	record     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_judgments_kind_created
	ON judgments (kind, created_at DESC);
`

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and if needed initializes) the database at path.
// Use ":memory:" for an ephemeral database.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("store: sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite at %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: initialize schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, j *arbiter.Judgment) error {
	data, err := encodeRecord(j)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO judgments (id, kind, model, overall, record, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			model = excluded.model,
			overall = excluded.overall,
			record = excluded.record,
			created_at = excluded.created_at`,
		j.ID, string(j.Kind), j.Model, j.OverallScore(), string(data), j.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: save judgment %s: %w", j.ID, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*arbiter.Judgment, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM judgments WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load judgment %s: %w", id, err)
	}
	return decodeRecord([]byte(data))
}

func (s *SQLite) List(ctx context.Context, kind strategy.Kind, limit int) ([]*arbiter.Judgment, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT record FROM judgments ORDER BY created_at DESC LIMIT ?`
	args := []any{limit}
	if kind != "" {
		query = `SELECT record FROM judgments WHERE kind = ? ORDER BY created_at DESC LIMIT ?`
		args = []any{string(kind), limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list judgments: %w", err)
	}
	defer rows.Close()

	var out []*arbiter.Judgment
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("store: scan judgment: %w", err)
		}
		j, err := decodeRecord([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
