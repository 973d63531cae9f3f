package localstore

import (
	"context"
	"sync"

	"warungpos/terminal/internal/domain"
)

// MemoryStore is the in-memory localstore used in tests and dev mode.
type MemoryStore struct {
	mu       sync.RWMutex
	draft    *domain.SaleDraft
	queue    []domain.OfflineQueueEntry
	failNext error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{queue: []domain.OfflineQueueEntry{}}
}

// FailNextWrite makes the next write operation return err, simulating a
// storage-quota or serialization failure.
func (s *MemoryStore) FailNextWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *MemoryStore) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *MemoryStore) SaveDraft(_ context.Context, draft domain.SaleDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	copied := draft
	copied.Items = append([]domain.LineItem(nil), draft.Items...)
	copied.Payments = append([]domain.Payment(nil), draft.Payments...)
	s.draft = &copied
	return nil
}

func (s *MemoryStore) LoadDraft(_ context.Context) (domain.SaleDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft == nil {
		return domain.SaleDraft{}, ErrNoDraft
	}
	return *s.draft, nil
}

func (s *MemoryStore) ClearDraft(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	return nil
}

func (s *MemoryStore) SaveQueue(_ context.Context, entries []domain.OfflineQueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.queue = append([]domain.OfflineQueueEntry(nil), entries...)
	return nil
}

func (s *MemoryStore) LoadQueue(_ context.Context) ([]domain.OfflineQueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.OfflineQueueEntry(nil), s.queue...), nil
}
