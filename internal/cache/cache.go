package cache

import (
	"context"
	"time"
)

// SequenceCache shares the last-known online order number across terminal
// sessions so a restart does not always pay a system-of-record round trip.
type SequenceCache interface {
	GetLastOrderNumber(ctx context.Context, storeID string) (int64, bool, error)
	SetLastOrderNumber(ctx context.Context, storeID string, last int64, ttl time.Duration) error
}

type NoopSequenceCache struct{}

func (NoopSequenceCache) GetLastOrderNumber(_ context.Context, _ string) (int64, bool, error) {
	return 0, false, nil
}

func (NoopSequenceCache) SetLastOrderNumber(_ context.Context, _ string, _ int64, _ time.Duration) error {
	return nil
}
