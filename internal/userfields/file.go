package userfields

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dooor-ai/readiness/internal/metrics"
	"github.com/dooor-ai/readiness/pkg/types"
)

// Compile-time interface satisfaction check.
var _ Store = (*FileStore)(nil)

// FileStore keeps all user fields in one JSON document on disk. Writes go
// through a temp file and rename so a crash mid-write never corrupts the file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a flat-file store at path. The file is created lazily
// on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns the stored fields for productID, or zero values when none exist.
func (s *FileStore) Get(_ context.Context, productID string) (types.UserFields, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return types.UserFields{}, err
	}
	return all[productID], nil
}

// SetStage updates only the stage field for productID.
func (s *FileStore) SetStage(_ context.Context, productID, stage string) error {
	return s.update(productID, func(f *types.UserFields) { f.Stage = stage })
}

// SetObservations updates only the observations field for productID.
func (s *FileStore) SetObservations(_ context.Context, productID, observations string) error {
	return s.update(productID, func(f *types.UserFields) { f.Observations = observations })
}

// Ping verifies the directory holding the file is reachable.
func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("user fields directory: %w", err)
	}
	return nil
}

func (s *FileStore) update(productID string, apply func(*types.UserFields)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}

	fields := all[productID]
	apply(&fields)
	all[productID] = fields

	if err := s.save(all); err != nil {
		return err
	}
	metrics.UserFieldWrites.Add(1)
	return nil
}

func (s *FileStore) load() (map[string]types.UserFields, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]types.UserFields{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading user fields: %w", err)
	}

	all := map[string]types.UserFields{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parsing user fields: %w", err)
	}
	return all, nil
}

func (s *FileStore) save(all map[string]types.UserFields) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing user fields: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing user fields: %w", err)
	}
	return nil
}
