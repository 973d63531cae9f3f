// Package localstore is the terminal-local persistence port. It holds two
// structured records under fixed keys: the session-scoped draft snapshot and
// the device-scoped offline queue. Both survive a process restart, not
// device loss.
package localstore

import (
	"context"
	"errors"

	"warungpos/terminal/internal/domain"
)

var (
	ErrNoDraft = errors.New("no draft snapshot")
	ErrStorage = errors.New("local storage failure")
)

const (
	DraftKey = "pos.sale_draft"
	QueueKey = "pos.offline_queue"
)

type Store interface {
	SaveDraft(ctx context.Context, draft domain.SaleDraft) error
	LoadDraft(ctx context.Context) (domain.SaleDraft, error)
	ClearDraft(ctx context.Context) error
	SaveQueue(ctx context.Context, entries []domain.OfflineQueueEntry) error
	LoadQueue(ctx context.Context) ([]domain.OfflineQueueEntry, error)
}
