// Package postgres provides a PostgreSQL user store on a pgx pool.
package postgres

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS kimlik_users (
	realm      TEXT   NOT NULL,
	ordinal    BIGINT NOT NULL,
	id         TEXT   NOT NULL,
	username   TEXT   NOT NULL,
	attributes JSONB  NOT NULL DEFAULT '{}'::jsonb,
	PRIMARY KEY (realm, ordinal)
)`

// Store is a PostgreSQL-based store.Store implementation.
type Store struct {
	pool   *pgxpool.Pool
	closed atomic.Bool
}

var _ store.Store = (*Store)(nil)

// Open connects to dsn and creates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the pool. Later calls return store.ErrClosed from every method.
func (s *Store) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.pool.Close()
	}
	return nil
}

// Put inserts or replaces u, assigning the next ordinal when u.Ordinal is zero.
// Ordinal assignment is serialized per realm with a transaction advisory lock.
func (s *Store) Put(ctx context.Context, u *identity.User) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if err := store.Prepare(u); err != nil {
		return err
	}

	attrs := u.Attributes
	if attrs == nil {
		attrs = map[string][]string{}
	}

	ordinal := u.Ordinal
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, u.Realm); err != nil {
			return fmt.Errorf("lock realm: %w", err)
		}
		if ordinal == 0 {
			if err := tx.QueryRow(ctx,
				`SELECT COALESCE(MAX(ordinal), 0) + 1 FROM kimlik_users WHERE realm = $1`, u.Realm,
			).Scan(&ordinal); err != nil {
				return fmt.Errorf("next ordinal: %w", err)
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO kimlik_users (realm, ordinal, id, username, attributes)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (realm, ordinal) DO UPDATE SET
				id = EXCLUDED.id,
				username = EXCLUDED.username,
				attributes = EXCLUDED.attributes
		`, u.Realm, ordinal, u.ID, u.Username, attrs)
		return err
	})
	if err != nil {
		return fmt.Errorf("put user %s: %w", u.ID, err)
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
		SELECT realm, ordinal, id, username, attributes FROM kimlik_users
		WHERE realm = $1 ORDER BY ordinal LIMIT $2 OFFSET $3
	`, realm, count, offset)
}

// FetchAll returns every user of realm.
func (s *Store) FetchAll(ctx context.Context, realm string) ([]*identity.User, error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	return s.query(ctx, `
		SELECT realm, ordinal, id, username, attributes FROM kimlik_users
		WHERE realm = $1 ORDER BY ordinal
	`, realm)
}

// Count returns the number of users in realm.
func (s *Store) Count(ctx context.Context, realm string) (int, error) {
	if s.closed.Load() {
		return 0, store.ErrClosed
	}
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM kimlik_users WHERE realm = $1`, realm).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]*identity.User, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*identity.User, 0)
	for rows.Next() {
		u := &identity.User{}
		if err := rows.Scan(&u.Realm, &u.Ordinal, &u.ID, &u.Username, &u.Attributes); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// truncate removes every user. Used by tests.
func (s *Store) truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE kimlik_users`)
	return err
}
