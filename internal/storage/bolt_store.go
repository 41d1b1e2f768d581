package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/snapapi-hq/snapapi-go/internal/domain"
)

var taskBucket = []byte("task_records")

// boltStore keeps JSON task records in one bucket. Expired records are
// dropped when read and by a sweep that runs at most once per interval.
type boltStore struct {
	db    *bolt.DB
	ttl   time.Duration
	every time.Duration
	now   func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

func openBolt(path string, opts Options) (Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(taskBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create task bucket: %w", err)
	}

	return &boltStore{
		db:        db,
		ttl:       opts.TaskTTL,
		every:     opts.CleanupInterval,
		now:       time.Now,
		lastSweep: time.Now(),
	}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// LastRun returns the live record stored under key. A stale or unreadable
// record is deleted and reported as missing.
func (b *boltStore) LastRun(ctx context.Context, key string) (domain.TaskRecord, bool, error) {
	var (
		rec  domain.TaskRecord
		live bool
	)
	err := b.update(ctx, func(bucket *bolt.Bucket, now time.Time) error {
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return nil
		}
		stored, ok := decodeRecord(raw)
		if !ok || !stored.Live(now) {
			return bucket.Delete([]byte(key))
		}
		rec, live = stored, true
		return nil
	})
	return rec, live, err
}

// MarkTask stores rec under key for the task TTL.
func (b *boltStore) MarkTask(ctx context.Context, key string, rec domain.TaskRecord) error {
	return b.update(ctx, func(bucket *bolt.Bucket, now time.Time) error {
		stamped, err := stampRecord(key, rec, now, b.ttl)
		if err != nil {
			return err
		}
		raw, err := encodeRecord(stamped)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(stamped.Key), raw)
	})
}

// update runs fn in a write transaction after an optional sweep.
func (b *boltStore) update(ctx context.Context, fn func(*bolt.Bucket, time.Time) error) error {
	if b == nil || b.db == nil {
		return errors.New("bbolt store is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	now := b.now()
	if err := b.sweep(now); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(taskBucket)
		if bucket == nil {
			return errors.New("task bucket missing")
		}
		return fn(bucket, now)
	})
}

// sweep deletes every expired or unreadable record once per cleanup interval.
func (b *boltStore) sweep(now time.Time) error {
	b.sweepMu.Lock()
	defer b.sweepMu.Unlock()
	if now.Sub(b.lastSweep) < b.every {
		return nil
	}

	var stale [][]byte
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(taskBucket)
		if bucket == nil {
			return errors.New("task bucket missing")
		}
		err := bucket.ForEach(func(k, v []byte) error {
			if rec, ok := decodeRecord(v); !ok || !rec.Live(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep task records: %w", err)
	}
	b.lastSweep = now
	return nil
}
