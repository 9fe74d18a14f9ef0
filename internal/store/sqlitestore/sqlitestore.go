// Package sqlitestore persists allocation entries in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/idilsaglam/sliders/internal/model"
	"github.com/idilsaglam/sliders/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS allocations (
	id       INTEGER PRIMARY KEY,
	name     TEXT    NOT NULL,
	value    TEXT    NOT NULL,
	position INTEGER NOT NULL
);`

// Values are stored as decimal strings so they round-trip exactly.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, value FROM allocations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		var (
			e   model.Entry
			raw string
		)
		if err := rows.Scan(&e.ID, &e.Name, &raw); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d value %q", model.ErrMalformed, e.ID, raw)
		}
		e.Value = v
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocations: %w", err)
	}
	return entries, nil
}

// Save replaces the stored list in one transaction.
func (s *Store) Save(ctx context.Context, entries []model.Entry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM allocations`); err != nil {
		return fmt.Errorf("clear allocations: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO allocations (id, name, value, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.ID, e.Name, e.Value.String(), i); err != nil {
			return fmt.Errorf("insert entry %d: %w", e.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
