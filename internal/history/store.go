package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	analysesBucket = []byte("analyses")
	metaBucket     = []byte("metadata")
)

// DefaultMaxEntries bounds how many analyses are kept before the oldest are
// pruned.
const DefaultMaxEntries = 200

// Store persists completed analyses in a local bbolt database.
type Store struct {
	db         *bolt.DB
	maxEntries int
}

// NewStore opens (or creates) the database at dbPath.
func NewStore(dbPath string, maxEntries int) (*Store, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{analysesBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, maxEntries: maxEntries}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes a record and prunes the oldest entries past the configured
// cap. A missing ID gets a locally generated one so records from backends
// that omit request ids still key cleanly.
func (s *Store) Save(rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(analysesBucket)
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := b.Put(keyFor(rec), data); err != nil {
			return err
		}
		return pruneOldest(b, s.maxEntries)
	})
}

// keyFor builds a chronologically sortable key so a forward cursor walk
// yields records oldest-first.
func keyFor(rec *Record) []byte {
	return []byte(rec.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + rec.ID)
}

func pruneOldest(b *bolt.Bucket, maxEntries int) error {
	excess := b.Stats().KeyN + 1 - maxEntries // +1: Stats lags the uncommitted put
	if excess <= 0 {
		return nil
	}
	c := b.Cursor()
	for k, _ := c.First(); k != nil && excess > 0; k, _ = c.Next() {
		if err := c.Delete(); err != nil {
			return err
		}
		excess--
	}
	return nil
}

// Get returns the record with the given id, or an error when absent.
func (s *Store) Get(id string) (*Record, error) {
	var found *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(analysesBucket).ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.ID == id {
				found = &rec
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("analysis %s not found", id)
	}
	return found, nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (s *Store) Recent(limit int) ([]*Record, error) {
	var records []*Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(analysesBucket).ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Delete removes one record by id. Deleting an absent id is not an error.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(analysesBucket)
		var key []byte
		err := b.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.ID == id {
				key = append([]byte(nil), k...)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if key == nil {
			return nil
		}
		return b.Delete(key)
	})
}

// Count reports how many analyses are stored.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(analysesBucket).Stats().KeyN
		return nil
	})
	return n, err
}
