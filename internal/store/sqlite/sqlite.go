// Package sqlite provides a SQLite-based user store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	realm      TEXT    NOT NULL,
	ordinal    INTEGER NOT NULL,
	id         TEXT    NOT NULL,
	username   TEXT    NOT NULL,
	attributes TEXT    NOT NULL,
	PRIMARY KEY (realm, ordinal)
)`

// Store is a SQLite-based store.Store implementation.
type Store struct {
	db     *sql.DB
	closed atomic.Bool
}

var _ store.Store = (*Store)(nil)

// Open opens a SQLite database at path and creates the schema.
// The path ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set journal_mode: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection. Later calls return
// store.ErrClosed from every method.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

// Put inserts or replaces u, assigning the next ordinal when u.Ordinal is zero.
func (s *Store) Put(ctx context.Context, u *identity.User) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if err := store.Prepare(u); err != nil {
		return err
	}

	attrs, err := json.Marshal(nonNilAttributes(u.Attributes))
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ordinal := u.Ordinal
	if ordinal == 0 {
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(ordinal), 0) + 1 FROM users WHERE realm = ?`, u.Realm,
		).Scan(&ordinal); err != nil {
			return fmt.Errorf("next ordinal: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (realm, ordinal, id, username, attributes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (realm, ordinal) DO UPDATE SET
			id = excluded.id,
			username = excluded.username,
			attributes = excluded.attributes
	`, u.Realm, ordinal, u.ID, u.Username, string(attrs))
	if err != nil {
		return fmt.Errorf("put user %s: %w", u.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	u.Ordinal = ordinal
	return nil
}

// FetchPage returns up to count users of realm starting at offset.
func (s *Store) FetchPage(ctx context.Context, realm string, offset, count int) ([]*identity.User, error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	if count <= 0 {
		return []*identity.User{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	return s.query(ctx, `
		SELECT ordinal, id, username, attributes FROM users
		WHERE realm = ? ORDER BY ordinal LIMIT ? OFFSET ?
	`, realm, realm, count, offset)
}

// FetchAll returns every user of realm.
func (s *Store) FetchAll(ctx context.Context, realm string) ([]*identity.User, error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	return s.query(ctx, `
		SELECT ordinal, id, username, attributes FROM users
		WHERE realm = ? ORDER BY ordinal
	`, realm, realm)
}

// Count returns the number of users in realm.
func (s *Store) Count(ctx context.Context, realm string) (int, error) {
	if s.closed.Load() {
		return 0, store.ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE realm = ?`, realm).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q, realm string, args ...any) ([]*identity.User, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*identity.User, 0)
	for rows.Next() {
		u := &identity.User{Realm: realm}
		var attrs string
		if err := rows.Scan(&u.Ordinal, &u.ID, &u.Username, &attrs); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &u.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes of %s: %w", u.ID, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func nonNilAttributes(attrs map[string][]string) map[string][]string {
	if attrs == nil {
		return map[string][]string{}
	}
	return attrs
}
