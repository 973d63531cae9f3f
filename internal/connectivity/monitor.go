// Package connectivity tracks a single online/offline flag fed by the host
// platform's connectivity-change events. There is no debouncing: the flag
// is exactly what the platform last reported.
package connectivity

import "sync"

// Monitor holds the online flag. A transition to online only notifies the
// registered listener with the pending queue size; it never triggers a
// drain on its own — draining stays an explicit operator action.
type Monitor struct {
	mu       sync.RWMutex
	online   bool
	pending  func() int
	onOnline func(pending int)
}

func NewMonitor(initialOnline bool) *Monitor {
	return &Monitor{online: initialOnline}
}

func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// OnOnline registers the callback invoked on the offline-to-online edge
// with the current pending queue size. pending supplies that size.
func (m *Monitor) OnOnline(pending func() int, fn func(pending int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = pending
	m.onOnline = fn
}

// SetOnline flips the flag from a platform connectivity event.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	wasOnline := m.online
	m.online = online
	pending := m.pending
	onOnline := m.onOnline
	m.mu.Unlock()

	if online && !wasOnline && onOnline != nil {
		count := 0
		if pending != nil {
			count = pending()
		}
		onOnline(count)
	}
}
