package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jschof1/val-des-roses/internal/notifier"
)

// Manager owns the session-keyed cart stores. Stores are created lazily
// on first access and rehydrated from the repository, so a returning
// session picks up its persisted cart.
type Manager struct {
	deps   Deps
	logger *slog.Logger

	mu     sync.Mutex
	stores map[string]*Store
	hubs   map[string]*notifier.Hub
}

// NewManager creates a cart manager with the given shared collaborators.
func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:   deps,
		logger: deps.Logger,
		stores: make(map[string]*Store),
		hubs:   make(map[string]*notifier.Hub),
	}
}

// Store returns the cart store for the given session, creating and
// rehydrating it on first access.
func (m *Manager) Store(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	s, ok := m.stores[sessionID]
	if !ok {
		hub := notifier.NewHub(m.logger)
		s = NewStore(sessionID, hub, m.deps)
		m.stores[sessionID] = s
		m.hubs[sessionID] = hub
	}
	m.mu.Unlock()

	// Rehydrate gates on its internal once: the creator performs the
	// load and every concurrent accessor blocks here until it is done,
	// so no request can mutate an empty cart that a snapshot load then
	// overwrites.
	s.Rehydrate(ctx)
	return s
}

// Notifications returns the notification hub for the given session,
// creating the session's store if needed.
func (m *Manager) Notifications(ctx context.Context, sessionID string) *notifier.Hub {
	m.Store(ctx, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hubs[sessionID]
}

// Evict drops the in-memory store and notification hub for a session.
// The persisted snapshot is untouched; the next access rehydrates it.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[sessionID]; ok {
		hub.Clear()
	}
	delete(m.stores, sessionID)
	delete(m.hubs, sessionID)
}

// Sessions returns the number of sessions currently held in memory.
func (m *Manager) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
