package storage

import (
	"encoding/json"
	"fmt"
)

// JSONStore wraps a Backend and stores values as JSON
type JSONStore struct {
	backend Backend
}

// NewJSONStore creates a new JSON store wrapper around a backend
func NewJSONStore(backend Backend) *JSONStore {
	return &JSONStore{backend: backend}
}

// PutJSON stores a JSON-encoded value in a bucket
func (j *JSONStore) PutJSON(bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return j.backend.Put(bucket, key, data)
}

// GetJSON decodes the value under key into v. found is false, and v is left
// untouched, when the key does not exist.
func (j *JSONStore) GetJSON(bucket, key []byte, v any) (found bool, err error) {
	data, err := j.backend.Get(bucket, key)
	if err != nil {
		return false, err
	}

	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to decode JSON: %w", err)
	}

	return true, nil
}

// ForEachJSON iterates over a bucket, handing each raw value to decode
func (j *JSONStore) ForEachJSON(bucket []byte, fn func(k []byte, decode func(v any) error) error) error {
	return j.backend.ForEach(bucket, func(k, data []byte) error {
		return fn(k, func(v any) error {
			if err := json.Unmarshal(data, v); err != nil {
				return fmt.Errorf("failed to decode JSON for key %s: %w", k, err)
			}
			return nil
		})
	})
}

// CreateBucket creates a new bucket
func (j *JSONStore) CreateBucket(name []byte) error {
	return j.backend.CreateBucket(name)
}

// DeleteBucket removes a bucket and everything in it
func (j *JSONStore) DeleteBucket(name []byte) error {
	return j.backend.DeleteBucket(name)
}

// BucketExists reports whether a bucket exists
func (j *JSONStore) BucketExists(name []byte) (bool, error) {
	return j.backend.BucketExists(name)
}

// Delete removes a key from a bucket
func (j *JSONStore) Delete(bucket, key []byte) error {
	return j.backend.Delete(bucket, key)
}

// Close closes the underlying backend
func (j *JSONStore) Close() error {
	return j.backend.Close()
}
