// Package queue is the offline durable queue: an append/remove-only list of
// fully-formed sale drafts awaiting submission, persisted through the
// localstore port. Entries are immutable between enqueue and removal.
package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"warungpos/terminal/internal/domain"
	"warungpos/terminal/internal/localstore"
	"warungpos/terminal/internal/ordernum"
)

var ErrNotFound = errors.New("queue entry not found")

type Queue struct {
	local localstore.Store
	now   func() time.Time
}

func New(local localstore.Store) *Queue {
	return &Queue{local: local, now: time.Now}
}

// WithClock overrides the timestamp source. Used in tests.
func (q *Queue) WithClock(now func() time.Time) *Queue {
	q.now = now
	return q
}

// Enqueue snapshots the draft with an offline ID taken from the local
// timestamp and persists it. The finalize path is serialized by the host
// event loop, so the timestamp is assumed collision-free. A persistence
// failure means the sale is NOT saved and must be surfaced to the operator.
func (q *Queue) Enqueue(ctx context.Context, draft domain.SaleDraft) (domain.OfflineQueueEntry, error) {
	entries, err := q.local.LoadQueue(ctx)
	if err != nil {
		return domain.OfflineQueueEntry{}, fmt.Errorf("enqueue: %w", err)
	}

	now := q.now().UTC()
	entry := domain.OfflineQueueEntry{
		OfflineID:   strconv.FormatInt(now.UnixMilli(), 10),
		OrderNumber: ordernum.NextOffline(now),
		EnqueuedAt:  now,
		Draft:       draft,
	}

	entries = append(entries, entry)
	if err := q.local.SaveQueue(ctx, entries); err != nil {
		return domain.OfflineQueueEntry{}, fmt.Errorf("enqueue: %w", err)
	}
	return entry, nil
}

// List returns the queued entries in insertion order, re-read from
// persisted storage on each call.
func (q *Queue) List(ctx context.Context) ([]domain.OfflineQueueEntry, error) {
	entries, err := q.local.LoadQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	return entries, nil
}

// Remove deletes exactly one entry. Called only after a confirmed
// successful remote commit.
func (q *Queue) Remove(ctx context.Context, offlineID string) error {
	entries, err := q.local.LoadQueue(ctx)
	if err != nil {
		return fmt.Errorf("remove %s: %w", offlineID, err)
	}

	kept := make([]domain.OfflineQueueEntry, 0, len(entries))
	found := false
	for _, entry := range entries {
		if !found && entry.OfflineID == offlineID {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return fmt.Errorf("remove %s: %w", offlineID, ErrNotFound)
	}

	if err := q.local.SaveQueue(ctx, kept); err != nil {
		return fmt.Errorf("remove %s: %w", offlineID, err)
	}
	return nil
}

// Size returns the number of pending entries, 0 when storage is unreadable.
func (q *Queue) Size(ctx context.Context) int {
	entries, err := q.local.LoadQueue(ctx)
	if err != nil {
		return 0
	}
	return len(entries)
}
