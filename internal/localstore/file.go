package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"warungpos/terminal/internal/domain"
)

// FileStore persists each record as one JSON file inside a data directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrStorage, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) write(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: serialize %s: %v", ErrStorage, key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, key, err)
	}
	return nil
}

func (s *FileStore) SaveDraft(_ context.Context, draft domain.SaleDraft) error {
	return s.write(DraftKey, draft)
}

func (s *FileStore) LoadDraft(_ context.Context) (domain.SaleDraft, error) {
	payload, err := os.ReadFile(s.path(DraftKey))
	if errors.Is(err, os.ErrNotExist) {
		return domain.SaleDraft{}, ErrNoDraft
	}
	if err != nil {
		return domain.SaleDraft{}, fmt.Errorf("%w: read %s: %v", ErrStorage, DraftKey, err)
	}

	var draft domain.SaleDraft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return domain.SaleDraft{}, fmt.Errorf("%w: decode %s: %v", ErrStorage, DraftKey, err)
	}
	return draft, nil
}

func (s *FileStore) ClearDraft(_ context.Context) error {
	err := os.Remove(s.path(DraftKey))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: clear %s: %v", ErrStorage, DraftKey, err)
	}
	return nil
}

func (s *FileStore) SaveQueue(_ context.Context, entries []domain.OfflineQueueEntry) error {
	if entries == nil {
		entries = []domain.OfflineQueueEntry{}
	}
	return s.write(QueueKey, entries)
}

func (s *FileStore) LoadQueue(_ context.Context) ([]domain.OfflineQueueEntry, error) {
	payload, err := os.ReadFile(s.path(QueueKey))
	if errors.Is(err, os.ErrNotExist) {
		return []domain.OfflineQueueEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, QueueKey, err)
	}

	entries := make([]domain.OfflineQueueEntry, 0, 8)
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorage, QueueKey, err)
	}
	return entries, nil
}
