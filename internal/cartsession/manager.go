// Package cartsession owns the process-wide registry of per-session cart
// stores. Stores are created lazily, hydrated once from their session slot,
// and evicted after a period of inactivity — the durable state lives in the
// slot, so eviction only drops the in-memory copy.
package cartsession

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cardboardcraft/storefront/internal/domain/cart"
)

// SlotStore hands out the durable slot for one session's cart.
type SlotStore interface {
	Slot(sessionID string) cart.Persister
}

type entry struct {
	store    *cart.Store
	lastSeen time.Time
}

// Manager maps session IDs to hydrated cart stores.
type Manager struct {
	slots     SlotStore
	idleAfter time.Duration
	lg        *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

// NewManager creates a Manager. Stores untouched for idleAfter become
// eligible for eviction once StartCleanup is running.
func NewManager(slots SlotStore, idleAfter time.Duration, lg *zap.Logger) *Manager {
	return &Manager{
		slots:     slots,
		idleAfter: idleAfter,
		lg:        lg,
		entries:   make(map[string]*entry),
	}
}

// Get returns the cart store for sessionID, opening and hydrating it on
// first use. The mutex is held across hydration so a session never gets two
// competing in-memory stores.
func (m *Manager) Get(ctx context.Context, sessionID string) (*cart.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[sessionID]; ok {
		e.lastSeen = time.Now()
		return e.store, nil
	}

	store, err := cart.Open(ctx, m.slots.Slot(sessionID), m.lg)
	if err != nil {
		return nil, err
	}

	m.entries[sessionID] = &entry{store: store, lastSeen: time.Now()}
	return store, nil
}

// cleanup drops entries idle for longer than idleAfter.
func (m *Manager) cleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.entries {
		if now.Sub(e.lastSeen) >= m.idleAfter {
			delete(m.entries, id)
		}
	}
}

// StartCleanup launches a background goroutine that periodically evicts idle
// stores. It stops when ctx is cancelled.
func (m *Manager) StartCleanup(ctx context.Context) {
	interval := m.idleAfter
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.cleanup(now)
			}
		}
	}()
}
