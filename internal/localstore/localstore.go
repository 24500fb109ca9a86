// Package localstore is the persisted key-value store the client keeps its
// signed-in identity in. Single SQLite file, one table.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// StoreError describes a failed operation on the store file.
type StoreError struct {
	Path string
	Op   string // "open", "get", "set", "delete", "keys"
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("local store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store is a string key-value table backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)

	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			_ = db.Close()
			return nil, &StoreError{Path: path, Op: "open", Err: err}
		}
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Get returns the value for key. ok is false when the key is missing.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, &StoreError{Path: s.path, Op: "get", Err: err}
	}
	return value, true, nil
}

// Set writes key=value, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (k, v, updated_at_unixms) VALUES (?, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at_unixms = excluded.updated_at_unixms`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return &StoreError{Path: s.path, Op: "set", Err: err}
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key); err != nil {
		return &StoreError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}

// Keys lists every stored key in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT k FROM kv`)
	if err != nil {
		return nil, &StoreError{Path: s.path, Op: "keys", Err: err}
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, &StoreError{Path: s.path, Op: "keys", Err: err}
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Path: s.path, Op: "keys", Err: err}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Close() error { return s.db.Close() }
