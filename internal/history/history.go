// Package history keeps an optional log of generation runs in a bbolt file.
package history

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"pkg.jsn.cam/benchgen/pkg/fixture"
	"pkg.jsn.cam/benchgen/pkg/storage"
)

var (
	ErrIncompatibleVersion = errors.New("incompatible history version")
	ErrRunNotFound         = errors.New("run not found")
)

var (
	runsBucket = []byte("runs")
	metaBucket = []byte("meta")

	schemaKey = []byte("schema_version")
)

// Run describes one invocation of the generator
type Run struct {
	ID        string        `json:"id"`
	Version   string        `json:"version"`
	Count     int           `json:"count"`
	Seed      uint64        `json:"seed"`
	Path      string        `json:"path"`
	Bytes     int64         `json:"bytes"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// NewRun starts a run record with a fresh ID
func NewRun(count int, seed uint64, path string) *Run {
	return &Run{
		ID:        uuid.New().String(),
		Version:   fixture.Version,
		Count:     count,
		Seed:      seed,
		Path:      path,
		StartedAt: time.Now(),
	}
}

// Finish records the output size and elapsed time
func (r *Run) Finish(bytes int64) {
	r.Bytes = bytes
	r.Duration = time.Since(r.StartedAt)
}

// Store persists runs through a storage backend
type Store struct {
	store *storage.JSONStore
}

// Open opens or creates a history file at path
func Open(path string) (*Store, error) {
	backend, err := storage.NewBboltBackend(path)
	if err != nil {
		return nil, err
	}

	s, err := New(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	log.Printf("[HISTORY] Opened run history at %s", path)
	return s, nil
}

// New prepares buckets on backend and checks its schema version.
// A backend without a meta bucket is new and gets stamped with SchemaVersion.
func New(backend storage.Backend) (*Store, error) {
	s := &Store{store: storage.NewJSONStore(backend)}

	existing, err := s.store.BucketExists(metaBucket)
	if err != nil {
		return nil, err
	}

	for _, bucket := range [][]byte{runsBucket, metaBucket} {
		if err := s.store.CreateBucket(bucket); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	if !existing {
		if err := s.store.PutJSON(metaBucket, schemaKey, SchemaVersion); err != nil {
			return nil, fmt.Errorf("failed to write schema version: %w", err)
		}
		return s, nil
	}

	var version string
	found, err := s.store.GetJSON(metaBucket, schemaKey, &version)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: meta bucket has no schema version", ErrIncompatibleVersion)
	}

	ok, err := IsCompatibleVersion(version)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleVersion, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: file is %s, this build reads %s.x.x",
			ErrIncompatibleVersion, version, semver.Major(SchemaVersion))
	}

	return s, nil
}

// Record stores run, replacing any entry with the same ID
func (s *Store) Record(run *Run) error {
	if err := s.store.PutJSON(runsBucket, []byte(run.ID), run); err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// Get returns the run with the given ID
func (s *Store) Get(id string) (*Run, error) {
	var run Run
	found, err := s.store.GetJSON(runsBucket, []byte(id), &run)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return &run, nil
}

// List returns all runs, oldest first
func (s *Store) List() ([]*Run, error) {
	var runs []*Run
	err := s.store.ForEachJSON(runsBucket, func(k []byte, decode func(v any) error) error {
		var run Run
		if err := decode(&run); err != nil {
			log.Printf("[HISTORY] Warning: Failed to decode run %s: %v", k, err)
			return nil
		}
		runs = append(runs, &run)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})

	return runs, nil
}

// Delete removes one run
func (s *Store) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.store.Delete(runsBucket, []byte(id)); err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	return nil
}

// Clear drops every recorded run. The schema stamp is kept.
func (s *Store) Clear() error {
	if err := s.store.DeleteBucket(runsBucket); err != nil {
		return fmt.Errorf("failed to clear runs: %w", err)
	}
	return s.store.CreateBucket(runsBucket)
}

// Close closes the underlying backend
func (s *Store) Close() error {
	return s.store.Close()
}
