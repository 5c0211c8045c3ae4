package service

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PendoNL/spotify-connect-go/pkg/dh"
	"github.com/PendoNL/spotify-connect-go/pkg/discovery"
	"github.com/PendoNL/spotify-connect-go/pkg/log"
	"github.com/PendoNL/spotify-connect-go/pkg/persistence"
)

// Service is the long-lived handle owning all handshake state.
type Service struct {
	mu sync.Mutex

	config Config
	state  State

	// Persisted identity and credential.
	store      *persistence.StateStore
	identity   string
	credential *persistence.StoredCredential

	// Discovery.
	registry   *discovery.Registry
	manager    *discovery.Manager
	advertiser discovery.Advertiser

	// Receiver-emulation session. Exactly one key pair is live while
	// publishing.
	keypair      *dh.KeyPair
	listener     net.Listener
	httpServer   *http.Server
	instanceName string

	// Event handlers.
	handlers []EventHandler

	httpClient *http.Client
	logger     *slog.Logger
	plog       log.Logger
}

// NewService creates a service around the given state store. The store
// is loaded immediately; a missing identity is generated and persisted.
func NewService(store *persistence.StateStore, config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	advertiser := config.Advertiser
	if advertiser == nil {
		var err error
		advertiser, err = discovery.NewMDNSAdvertiser(config.MDNS)
		if err != nil {
			return nil, err
		}
	}

	browser := config.Browser
	if browser == nil {
		var err error
		browser, err = discovery.NewMDNSBrowser(config.MDNS)
		if err != nil {
			return nil, err
		}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.HTTPTimeout}
	}

	plog := config.ProtocolLogger
	if plog == nil {
		plog = log.NoopLogger{}
	}

	registry := discovery.NewRegistry()
	svc := &Service{
		config:     config,
		state:      StateIdle,
		store:      store,
		registry:   registry,
		manager:    discovery.NewManager(browser, registry),
		advertiser: advertiser,
		httpClient: httpClient,
		logger:     config.Logger,
		plog:       plog,
	}
	svc.manager.OnPeer(svc.handlePeer)

	if err := svc.loadState(); err != nil {
		return nil, err
	}

	return svc, nil
}

// loadState reads persisted identity and credential, generating and
// persisting a fresh identity on first run.
func (s *Service) loadState() error {
	state, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	if state != nil {
		s.identity = state.Identity
		s.credential = state.Credential
	}
	if s.identity == "" {
		s.identity = uuid.NewString()
		s.debugf("generated receiver identity", "identity", s.identity)
		return s.persist()
	}
	return nil
}

// persist writes identity and credential to the store.
// Callers must hold no lock or the service lock consistently; persist
// reads the fields it writes under the caller's ownership.
func (s *Service) persist() error {
	return s.store.Save(&persistence.State{
		Identity:   s.identity,
		Credential: s.credential,
	})
}

// Start begins browsing for receiver advertisements.
func (s *Service) Start(ctx context.Context) error {
	return s.manager.Start(ctx)
}

// Stop ends browsing and withdraws any active emulation session.
func (s *Service) Stop() error {
	s.manager.Stop()
	return s.StopCapture()
}

// State returns the emulator state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the persisted receiver identity.
func (s *Service) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// HasUsableCredential reports whether a stored credential can drive a
// wake: it decoded successfully and was captured under the current
// identity.
func (s *Service) HasUsableCredential() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential.Usable(s.identity)
}

// Credential returns the stored credential, nil if none was captured.
func (s *Service) Credential() *persistence.StoredCredential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// DiscoveredPeers returns a snapshot of receivers seen on the network.
func (s *Service) DiscoveredPeers() []*discovery.Peer {
	return s.registry.Peers()
}

// ResetIdentity generates a fresh identity and atomically clears the
// stored credential, which the old identity's key derivation made
// unusable anyway.
func (s *Service) ResetIdentity() error {
	s.mu.Lock()
	s.identity = uuid.NewString()
	s.credential = nil
	err := s.persist()
	identity := s.identity
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to persist identity reset: %w", err)
	}
	s.debugf("identity reset", "identity", identity)
	return nil
}

// handlePeer records discovery callbacks.
func (s *Service) handlePeer(peer *discovery.Peer) {
	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Category:  log.CategoryDiscovery,
		Peer:      peer.Name,
		Action:    "advertise",
	})
	s.emit(Event{Type: EventPeerDiscovered, Peer: peer})
}

// debugf logs through the optional slog logger.
func (s *Service) debugf(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
