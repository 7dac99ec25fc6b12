// Package store defines the realm-partitioned user store consumed by the
// search engine.
//
// Users of a realm are kept in ordinal order. Ordinals are assigned on Put
// and never reused, so a paged scan over an unchanged realm always sees the
// same sequence. Backends:
//
//   - memory: tidwall/btree, for tests and ephemeral servers
//   - nuts: nutsdb, embedded persistent storage
//   - sqlite: modernc.org/sqlite
//   - postgres: pgx connection pool
//
// The serve command picks a backend from the storage.driver setting.
package store
