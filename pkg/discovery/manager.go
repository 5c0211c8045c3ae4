package discovery

import (
	"context"
	"sync"
)

// Manager feeds browse results into a Registry and notifies observers.
type Manager struct {
	mu sync.Mutex

	browser  Browser
	registry *Registry

	running bool
	cancel  context.CancelFunc

	// Callback for freshly seen advertisements.
	onPeer func(*Peer)
}

// NewManager creates a manager around the given browser and registry.
func NewManager(browser Browser, registry *Registry) *Manager {
	return &Manager{
		browser:  browser,
		registry: registry,
	}
}

// Registry returns the registry the manager feeds.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// OnPeer sets a callback invoked for every advertisement recorded.
func (m *Manager) OnPeer(fn func(*Peer)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPeer = fn
}

// Start begins browsing. Repeated calls while running are no-ops.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	peers, err := m.browser.Browse(ctx)
	if err != nil {
		cancel()
		return err
	}

	m.running = true
	m.cancel = cancel

	go func() {
		for peer := range peers {
			m.registry.Upsert(peer)

			m.mu.Lock()
			fn := m.onPeer
			m.mu.Unlock()
			if fn != nil {
				fn(peer)
			}
		}
	}()

	return nil
}

// Stop ends browsing. Idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	m.cancel()
	m.cancel = nil
	m.browser.Stop()
}
