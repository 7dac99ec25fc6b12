// Package nuts provides a persistent user store on nutsdb.
//
// Each realm is a BTree bucket. Users are msgpack-encoded under the key
// "u/" followed by the big-endian ordinal, so key order is ordinal order
// and a prefix scan pages through a realm. The bucket's "m/seq" key holds
// the highest assigned ordinal.
package nuts

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/nutsdb/nutsdb"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
)

const bucketPrefix = "realm:"

var (
	// fetchChunk is the page size used by FetchAll.
	fetchChunk = 1024

	userPrefix = []byte("u/")
	seqKey     = []byte("m/seq")
)

// Store is a nutsdb-backed store.Store.
type Store struct {
	db *nutsdb.DB

	// mu serializes ordinal assignment.
	mu      sync.Mutex
	buckets map[string]bool
	closed  atomic.Bool
}

// Open opens or creates a database in dir.
func Open(dir string) (*Store, error) {
	db, err := nutsdb.Open(nutsdb.DefaultOptions, nutsdb.WithDir(dir))
	if err != nil {
		return nil, errors.Wrapf(err, "nuts: open %s", dir)
	}
	return &Store{db: db, buckets: make(map[string]bool)}, nil
}

func bucketName(realm string) string {
	return bucketPrefix + realm
}

func userKey(ordinal int64) []byte {
	key := make([]byte, len(userPrefix)+8)
	copy(key, userPrefix)
	binary.BigEndian.PutUint64(key[len(userPrefix):], uint64(ordinal))
	return key
}

func encodeSeq(seq int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(seq))
	return buf
}

func decodeSeq(buf []byte) (int64, error) {
	if len(buf) != 8 {
		return 0, errors.Errorf("nuts: corrupt sequence of %d bytes", len(buf))
	}
	return int64(binary.BigEndian.Uint64(buf)), nil
}

// ensureBucket creates the realm bucket and its sequence key once.
// Callers hold s.mu.
func (s *Store) ensureBucket(bucket string) error {
	if s.buckets[bucket] {
		return nil
	}

	created := false
	err := s.db.Update(func(tx *nutsdb.Tx) error {
		if tx.ExistBucket(nutsdb.DataStructureBTree, bucket) {
			return nil
		}
		created = true
		return tx.NewBucket(nutsdb.DataStructureBTree, bucket)
	})
	if err != nil {
		return errors.Wrapf(err, "nuts: create bucket %s", bucket)
	}

	if created {
		err = s.db.Update(func(tx *nutsdb.Tx) error {
			return tx.Put(bucket, seqKey, encodeSeq(0), nutsdb.Persistent)
		})
		if err != nil {
			return errors.Wrapf(err, "nuts: init sequence of %s", bucket)
		}
	}

	s.buckets[bucket] = true
	return nil
}

func readSeq(tx *nutsdb.Tx, bucket string) (int64, error) {
	buf, err := tx.Get(bucket, seqKey)
	if errors.Is(err, nutsdb.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return decodeSeq(buf)
}

// Put stores u, assigning the realm's next ordinal when u.Ordinal is zero.
func (s *Store) Put(_ context.Context, u *identity.User) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if err := store.Prepare(u); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := bucketName(u.Realm)
	if err := s.ensureBucket(bucket); err != nil {
		return err
	}

	ordinal := u.Ordinal
	err := s.db.Update(func(tx *nutsdb.Tx) error {
		seq, err := readSeq(tx, bucket)
		if err != nil {
			return err
		}
		if ordinal == 0 {
			seq++
			ordinal = seq
		} else if ordinal > seq {
			seq = ordinal
		}

		rec := u.Clone()
		rec.Ordinal = ordinal
		value, err := msgpack.Marshal(rec)
		if err != nil {
			return err
		}
		if err := tx.Put(bucket, userKey(ordinal), value, nutsdb.Persistent); err != nil {
			return err
		}
		return tx.Put(bucket, seqKey, encodeSeq(seq), nutsdb.Persistent)
	})
	if err != nil {
		return errors.Wrapf(err, "nuts: put user %s", u.ID)
	}

	u.Ordinal = ordinal
	return nil
}

// FetchPage returns up to count users of realm starting at offset.
func (s *Store) FetchPage(_ context.Context, realm string, offset, count int) ([]*identity.User, error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	if count <= 0 {
		return []*identity.User{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	var values [][]byte
	err := s.db.View(func(tx *nutsdb.Tx) error {
		var err error
		values, err = tx.PrefixScan(bucketName(realm), userPrefix, offset, count)
		return err
	})
	if isEmptyScan(err) {
		return []*identity.User{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "nuts: fetch %s[%d:%d]", realm, offset, offset+count)
	}

	users := make([]*identity.User, 0, len(values))
	for _, value := range values {
		var u identity.User
		if err := msgpack.NewDecoder(bytes.NewReader(value)).Decode(&u); err != nil {
			return nil, errors.Wrapf(err, "nuts: decode user in %s", realm)
		}
		users = append(users, &u)
	}
	return users, nil
}

// isEmptyScan reports whether err only means there was nothing to scan.
func isEmptyScan(err error) bool {
	return errors.Is(err, nutsdb.ErrPrefixScan) ||
		errors.Is(err, nutsdb.ErrBucketNotExist) ||
		errors.Is(err, nutsdb.ErrBucketNotFound)
}

// FetchAll returns every user of realm.
func (s *Store) FetchAll(ctx context.Context, realm string) ([]*identity.User, error) {
	users := make([]*identity.User, 0)
	for offset := 0; ; offset += fetchChunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := s.FetchPage(ctx, realm, offset, fetchChunk)
		if err != nil {
			return nil, err
		}
		users = append(users, page...)
		if len(page) < fetchChunk {
			return users, nil
		}
	}
}

// Count returns the number of users in realm.
func (s *Store) Count(ctx context.Context, realm string) (int, error) {
	users, err := s.FetchAll(ctx, realm)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

// Close closes the database. Later calls return store.ErrClosed from
// every method.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)
