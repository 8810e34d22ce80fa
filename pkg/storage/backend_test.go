package storage

import (
	"bytes"
	"errors"
	"testing"
)

// backendTestSuite runs the shared Backend contract against an implementation
func backendTestSuite(t *testing.T, newBackend func() (Backend, func(), error)) {
	open := func(t *testing.T) Backend {
		t.Helper()
		backend, cleanup, err := newBackend()
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		t.Cleanup(cleanup)
		return backend
	}

	t.Run("CreateBucket", func(t *testing.T) {
		backend := open(t)

		if err := backend.CreateBucket([]byte("runs")); err != nil {
			t.Fatalf("CreateBucket failed: %v", err)
		}

		exists, err := backend.BucketExists([]byte("runs"))
		if err != nil {
			t.Fatalf("BucketExists failed: %v", err)
		}
		if !exists {
			t.Error("Bucket should exist after creation")
		}

		// Idempotent
		if err := backend.CreateBucket([]byte("runs")); err != nil {
			t.Errorf("CreateBucket should be idempotent: %v", err)
		}
	})

	t.Run("DeleteBucket", func(t *testing.T) {
		backend := open(t)

		backend.CreateBucket([]byte("runs"))
		if err := backend.DeleteBucket([]byte("runs")); err != nil {
			t.Fatalf("DeleteBucket failed: %v", err)
		}

		exists, _ := backend.BucketExists([]byte("runs"))
		if exists {
			t.Error("Bucket should not exist after deletion")
		}

		// Idempotent
		if err := backend.DeleteBucket([]byte("runs")); err != nil {
			t.Errorf("DeleteBucket should be idempotent: %v", err)
		}
	})

	t.Run("PutAndGet", func(t *testing.T) {
		backend := open(t)
		backend.CreateBucket([]byte("runs"))

		value := []byte("value1")
		if err := backend.Put([]byte("runs"), []byte("key1"), value); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := backend.Get([]byte("runs"), []byte("key1"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, value) {
			t.Errorf("Get returned %s, want %s", got, value)
		}

		// Non-existent key
		got, err = backend.Get([]byte("runs"), []byte("nonexistent"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != nil {
			t.Errorf("Get should return nil for non-existent key, got %s", got)
		}
	})

	t.Run("ValuesAreCopied", func(t *testing.T) {
		backend := open(t)
		backend.CreateBucket([]byte("runs"))

		value := []byte("abc")
		backend.Put([]byte("runs"), []byte("k"), value)
		value[0] = 'z'

		got, _ := backend.Get([]byte("runs"), []byte("k"))
		if string(got) != "abc" {
			t.Errorf("stored value changed with caller's slice: %s", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		backend := open(t)
		backend.CreateBucket([]byte("runs"))

		key := []byte("key1")
		backend.Put([]byte("runs"), key, []byte("value1"))

		if err := backend.Delete([]byte("runs"), key); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		got, _ := backend.Get([]byte("runs"), key)
		if got != nil {
			t.Error("Key should not exist after deletion")
		}
	})

	t.Run("ForEachOrdered", func(t *testing.T) {
		backend := open(t)
		backend.CreateBucket([]byte("runs"))

		for _, k := range []string{"c", "a", "d", "b"} {
			backend.Put([]byte("runs"), []byte(k), []byte("v"+k))
		}

		var keys []string
		err := backend.ForEach([]byte("runs"), func(k, v []byte) error {
			if string(v) != "v"+string(k) {
				t.Errorf("ForEach: key %s = %s", k, v)
			}
			keys = append(keys, string(k))
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach failed: %v", err)
		}

		want := []string{"a", "b", "c", "d"}
		if len(keys) != len(want) {
			t.Fatalf("ForEach visited %v, want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("ForEach visited %v, want %v", keys, want)
				break
			}
		}
	})

	t.Run("ForEachStopsOnError", func(t *testing.T) {
		backend := open(t)
		backend.CreateBucket([]byte("runs"))
		backend.Put([]byte("runs"), []byte("a"), []byte("1"))
		backend.Put([]byte("runs"), []byte("b"), []byte("2"))

		stop := errors.New("stop")
		visited := 0
		err := backend.ForEach([]byte("runs"), func(k, v []byte) error {
			visited++
			return stop
		})
		if !errors.Is(err, stop) {
			t.Errorf("ForEach error = %v, want %v", err, stop)
		}
		if visited != 1 {
			t.Errorf("ForEach visited %d keys after error, want 1", visited)
		}
	})

	t.Run("MissingBucket", func(t *testing.T) {
		backend := open(t)

		if err := backend.Put([]byte("nope"), []byte("k"), []byte("v")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Put error = %v, want ErrBucketNotFound", err)
		}
		if _, err := backend.Get([]byte("nope"), []byte("k")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Get error = %v, want ErrBucketNotFound", err)
		}
		if err := backend.Delete([]byte("nope"), []byte("k")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Delete error = %v, want ErrBucketNotFound", err)
		}
		err := backend.ForEach([]byte("nope"), func(k, v []byte) error { return nil })
		if !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("ForEach error = %v, want ErrBucketNotFound", err)
		}
	})
}
