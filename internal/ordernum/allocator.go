// Package ordernum allocates order numbers. The online branch continues a
// central sequence from a session snapshot; the offline branch produces a
// human-legible placeholder that is always replaced during sync.
package ordernum

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"warungpos/terminal/internal/cache"
)

// SequenceSource yields the highest order number the system of record has
// seen, typically via its most recent sale.
type SequenceSource interface {
	LatestOrderNumber(ctx context.Context, storeID string) (int64, error)
}

// Allocator keeps a session-scoped snapshot of the last known online order
// number. The snapshot is fetched earlier in the session, never re-fetched
// atomically at commit time, so two terminals finalizing concurrently can
// allocate the same number. That race is accepted, not prevented.
type Allocator struct {
	source  SequenceSource
	cache   cache.SequenceCache
	ttl     time.Duration
	storeID string

	mu        sync.Mutex
	lastKnown int64
	primed    bool
}

func NewAllocator(source SequenceSource, seqCache cache.SequenceCache, ttl time.Duration, storeID string) *Allocator {
	return &Allocator{
		source:  source,
		cache:   seqCache,
		ttl:     ttl,
		storeID: storeID,
	}
}

// RefreshSnapshot primes the session snapshot, preferring the shared cache
// and falling back to the system of record.
func (a *Allocator) RefreshSnapshot(ctx context.Context) error {
	if last, ok, err := a.cache.GetLastOrderNumber(ctx, a.storeID); err == nil && ok {
		a.mu.Lock()
		a.lastKnown = last
		a.primed = true
		a.mu.Unlock()
		return nil
	} else if err != nil {
		log.Printf("[ordernum] WARN: sequence cache read failed: %v", err)
	}

	last, err := a.source.LatestOrderNumber(ctx, a.storeID)
	if err != nil {
		return fmt.Errorf("refresh order number snapshot: %w", err)
	}

	a.mu.Lock()
	a.lastKnown = last
	a.primed = true
	a.mu.Unlock()

	if err := a.cache.SetLastOrderNumber(ctx, a.storeID, last, a.ttl); err != nil {
		log.Printf("[ordernum] WARN: sequence cache write failed: %v", err)
	}
	return nil
}

// NextOnline returns the next 5-digit zero-padded online order number and
// advances the local snapshot.
func (a *Allocator) NextOnline(ctx context.Context) (string, error) {
	a.mu.Lock()
	primed := a.primed
	a.mu.Unlock()

	if !primed {
		if err := a.RefreshSnapshot(ctx); err != nil {
			return "", err
		}
	}

	a.mu.Lock()
	a.lastKnown++
	next := a.lastKnown
	a.mu.Unlock()

	if err := a.cache.SetLastOrderNumber(ctx, a.storeID, next, a.ttl); err != nil {
		log.Printf("[ordernum] WARN: sequence cache write failed: %v", err)
	}
	return Format(next), nil
}

// Format renders an online order number as 5-digit zero-padded decimal.
func Format(n int64) string {
	return fmt.Sprintf("%05d", n)
}

// NextOffline builds the temporary placeholder from the last four digits of
// the epoch-second timestamp. It is never globally unique and is always
// replaced by a fresh online allocation during sync.
func NextOffline(now time.Time) string {
	return fmt.Sprintf("OFF-%04d", now.Unix()%10000)
}
