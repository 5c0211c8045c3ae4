package discovery

import (
	"context"
	"time"
)

// Advertiser publishes a receiver service on the local network.
type Advertiser interface {
	// Advertise starts advertising the service. A second call replaces
	// the current advertisement.
	Advertise(ctx context.Context, info *ServiceInfo) error

	// Stop withdraws the advertisement. Idempotent.
	Stop() error
}

// Browser watches the local network for receiver advertisements.
type Browser interface {
	// Browse starts browsing and returns a channel of discovered peers.
	// Re-advertisements of a known instance are delivered again with the
	// fresh port and attributes. The channel closes when ctx is
	// cancelled.
	Browse(ctx context.Context) (<-chan *Peer, error)

	// Stop stops all active browsing.
	Stop()
}

// Config configures mDNS behavior.
type Config struct {
	// Interface restricts advertising and browsing to one network
	// interface. Empty means all interfaces.
	Interface string

	// TTL is the DNS record TTL for advertisements.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultConfig returns the default mDNS configuration.
func DefaultConfig() Config {
	return Config{
		Interface: "",
		TTL:       120 * time.Second,
	}
}
