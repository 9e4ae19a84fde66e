package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"polycubes/internal/polycube"
)

const (
	// Schema creates the generations table if it does not exist.
	Schema = `
		CREATE TABLE IF NOT EXISTS generations (
			n           INTEGER PRIMARY KEY,
			run_id      TEXT NOT NULL,
			shape_count INTEGER NOT NULL,
			payload     BLOB NOT NULL,
			created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`

	// DropSchema removes the generations table.
	DropSchema = `DROP TABLE IF EXISTS generations;`
)

// Entry describes one cached generation without its shapes.
type Entry struct {
	N         int       `json:"n"`
	Count     int       `json:"count"`
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SQLiteStore keeps generations as rows of a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dbPath and makes
// sure the schema exists.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", ErrIO, err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", ErrIO, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema: %w", ErrIO, err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load fetches generation n.
func (s *SQLiteStore) Load(ctx context.Context, n int) ([]polycube.Grid, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM generations WHERE n = ?`, n).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: query generation %d: %w", ErrIO, n, err)
	}

	shapes, err := decodeGeneration(n, payload)
	if err != nil {
		return nil, false, fmt.Errorf("load generation %d: %w", n, err)
	}
	return shapes, true, nil
}

// Save stores generation n under a fresh run id, replacing any prior row.
func (s *SQLiteStore) Save(ctx context.Context, n int, shapes []polycube.Grid) error {
	payload, err := encodeGeneration(n, shapes)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrIO, err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO generations (n, run_id, shape_count, payload, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(n) DO UPDATE SET
			run_id = excluded.run_id,
			shape_count = excluded.shape_count,
			payload = excluded.payload,
			created_at = excluded.created_at`
	if _, err := tx.ExecContext(ctx, upsert, n, uuid.New().String(), len(shapes), payload); err != nil {
		return fmt.Errorf("%w: save generation %d: %w", ErrIO, n, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit generation %d: %w", ErrIO, n, err)
	}
	return nil
}

// List returns every cached generation ordered by n.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT n, shape_count, run_id, created_at FROM generations ORDER BY n`)
	if err != nil {
		return nil, fmt.Errorf("%w: list generations: %w", ErrIO, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.N, &e.Count, &e.RunID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan generation: %w", ErrIO, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate generations: %w", ErrIO, err)
	}

	return entries, nil
}
