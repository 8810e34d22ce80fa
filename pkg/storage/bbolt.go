package storage

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BboltBackend implements Backend on a single bbolt file
type BboltBackend struct {
	db *bolt.DB
}

// NewBboltBackend opens or creates the database file at dbPath. It waits at
// most one second for another process holding the file lock.
func NewBboltBackend(dbPath string) (*BboltBackend, error) {
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}

	return &BboltBackend{db: db}, nil
}

// CreateBucket creates a bucket if it does not exist
func (b *BboltBackend) CreateBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

// DeleteBucket drops a bucket; a missing bucket is not an error
func (b *BboltBackend) DeleteBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		return nil
	})
}

func (b *BboltBackend) BucketExists(name []byte) (exists bool, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(name) != nil
		return nil
	})
	return exists, err
}

func (b *BboltBackend) Put(bucket, key, value []byte) error {
	return b.update(bucket, func(bkt *bolt.Bucket) error {
		return bkt.Put(key, value)
	})
}

// Get copies the value out, since bbolt memory is only valid inside the transaction
func (b *BboltBackend) Get(bucket, key []byte) (value []byte, err error) {
	err = b.view(bucket, func(bkt *bolt.Bucket) error {
		if v := bkt.Get(key); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, err
}

func (b *BboltBackend) Delete(bucket, key []byte) error {
	return b.update(bucket, func(bkt *bolt.Bucket) error {
		return bkt.Delete(key)
	})
}

func (b *BboltBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	return b.view(bucket, func(bkt *bolt.Bucket) error {
		return bkt.ForEach(fn)
	})
}

func (b *BboltBackend) Close() error {
	return b.db.Close()
}

func (b *BboltBackend) update(name []byte, fn func(*bolt.Bucket) error) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return withBucket(tx, name, fn)
	})
}

func (b *BboltBackend) view(name []byte, fn func(*bolt.Bucket) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		return withBucket(tx, name, fn)
	})
}

func withBucket(tx *bolt.Tx, name []byte, fn func(*bolt.Bucket) error) error {
	bkt := tx.Bucket(name)
	if bkt == nil {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, name)
	}
	return fn(bkt)
}
