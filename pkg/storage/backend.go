// Package storage provides a small bucketed key-value layer with bbolt and
// in-memory implementations.
package storage

import "errors"

// ErrBucketNotFound is returned by operations addressed to a missing bucket.
var ErrBucketNotFound = errors.New("bucket not found")

// Backend defines a bucketed key-value store over raw bytes.
// ForEach visits keys in ascending byte order on every implementation.
type Backend interface {
	CreateBucket(name []byte) error
	DeleteBucket(name []byte) error
	BucketExists(name []byte) (bool, error)

	Put(bucket, key, value []byte) error
	Get(bucket, key []byte) ([]byte, error)
	Delete(bucket, key []byte) error

	ForEach(bucket []byte, fn func(k, v []byte) error) error

	Close() error
}
