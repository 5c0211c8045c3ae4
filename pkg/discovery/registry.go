package discovery

import (
	"strings"
	"sync"
	"time"
)

// pollInterval is the fixed polling interval of Refresh.
const pollInterval = 250 * time.Millisecond

// Registry tracks receivers discovered on the local network. It is safe
// for concurrent use; advertisement updates arriving during a Refresh
// wait are visible to it.
type Registry struct {
	mu    sync.Mutex
	peers map[string]*Peer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{peers: make(map[string]*Peer)}
}

// Upsert records an advertisement. A record with the same name is
// replaced outright; last write wins.
func (r *Registry) Upsert(p *Peer) {
	if p == nil || p.Name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[p.Name] = p
}

// Peers returns a snapshot of all known peers.
func (r *Registry) Peers() []*Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Peer, 0, len(r.peers))
	for _, p := range r.peers {
		out = append(out, p)
	}
	return out
}

// Lookup returns the first peer fuzzily matching the hint, or nil.
func (r *Registry) Lookup(hint string) *Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.peers {
		if matchesHint(hint, p) {
			return p
		}
	}
	return nil
}

// Invalidate removes every peer fuzzily matching the hint and returns
// how many were removed. Some receivers re-advertise on a different
// ephemeral port each session, so a cached record must be dropped before
// waiting for a fresh one.
func (r *Registry) Invalidate(hint string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for name, p := range r.peers {
		if matchesHint(hint, p) {
			delete(r.peers, name)
			removed++
		}
	}
	return removed
}

// Refresh invalidates any cached record matching the hint, then waits,
// polling at a fixed interval, until a freshly discovered matching record
// appears or the timeout elapses. It returns the fresh record or
// ErrNotFound at the deadline, not before.
func (r *Registry) Refresh(hint string, timeout time.Duration) (*Peer, error) {
	r.Invalidate(hint)

	deadline := time.Now().Add(timeout)
	for {
		if p := r.Lookup(hint); p != nil {
			return p, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrNotFound
		}
		if remaining > pollInterval {
			remaining = pollInterval
		}
		time.Sleep(remaining)
	}
}

// matchesHint reports whether the hint fuzzily matches the peer's name
// or host: case-insensitive substring in either direction.
func matchesHint(hint string, p *Peer) bool {
	h := strings.ToLower(hint)
	if h == "" {
		return false
	}
	for _, s := range []string{strings.ToLower(p.Name), strings.ToLower(p.Host)} {
		if s == "" {
			continue
		}
		if strings.Contains(s, h) || strings.Contains(h, s) {
			return true
		}
	}
	return false
}
