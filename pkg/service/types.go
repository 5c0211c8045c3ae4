package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PendoNL/spotify-connect-go/pkg/discovery"
	"github.com/PendoNL/spotify-connect-go/pkg/log"
)

// Service errors.
var (
	ErrAlreadyPublishing  = errors.New("receiver emulation already publishing")
	ErrNoCredential       = errors.New("no usable credential stored")
	ErrUnreachable        = errors.New("receiver unreachable on all candidate paths")
	ErrCredentialRejected = errors.New("credential rejected by receiver")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// StatusError carries a non-success protocol status verbatim.
type StatusError struct {
	Action       string
	Status       int
	StatusString string
}

// Error returns the status description.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: protocol status %d (%s)", e.Action, e.Status, e.StatusString)
}

// State represents the emulator state.
type State uint8

const (
	// StateIdle - no receiver-emulation session is active.
	StateIdle State = iota

	// StatePublishing - the emulator is advertised and serving the
	// handshake endpoints.
	StatePublishing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePublishing:
		return "PUBLISHING"
	default:
		return "UNKNOWN"
	}
}

// Config configures a Service.
type Config struct {
	// RemoteName is the default display name for the emulated receiver.
	RemoteName string

	// DeviceType is the receiver class reported in descriptors.
	DeviceType string

	// Brand and Model are the display names reported in descriptors.
	Brand string
	Model string

	// CPath is the handshake path the emulator advertises and serves.
	CPath string

	// ListenAddress is the emulator bind address. The port should be 0
	// so the OS assigns an ephemeral one.
	ListenAddress string

	// SettleDelay is the fixed wait after resetUsers and after a
	// successful credential submission, giving the receiver time to
	// complete the transition.
	SettleDelay time.Duration

	// RefreshTimeout bounds the peer re-resolution wait during a wake
	// by discovered name.
	RefreshTimeout time.Duration

	// HTTPTimeout bounds individual outbound handshake requests.
	HTTPTimeout time.Duration

	// MDNS configures advertising and browsing.
	MDNS discovery.Config

	// Advertiser overrides the mDNS advertiser. Used in tests.
	Advertiser discovery.Advertiser

	// Browser overrides the mDNS browser. Used in tests.
	Browser discovery.Browser

	// HTTPClient overrides the outbound HTTP client. Used in tests.
	HTTPClient *http.Client

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger is the optional structured event logger.
	ProtocolLogger log.Logger
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		RemoteName:     "Connect Receiver",
		DeviceType:     "SPEAKER",
		Brand:          "PendoNL",
		Model:          "connect-go",
		CPath:          discovery.DefaultCPath,
		ListenAddress:  ":0",
		SettleDelay:    time.Second,
		RefreshTimeout: 10 * time.Second,
		HTTPTimeout:    5 * time.Second,
		MDNS:           discovery.DefaultConfig(),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.RemoteName == "" {
		return fmt.Errorf("%w: remote name required", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.CPath, "/") {
		return fmt.Errorf("%w: CPath must start with /", ErrInvalidConfig)
	}
	if c.SettleDelay < 0 || c.RefreshTimeout < 0 || c.HTTPTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidConfig)
	}
	return nil
}

// CaptureInfo describes an active receiver-emulation session.
type CaptureInfo struct {
	// Port is the bound handshake HTTP port.
	Port int

	// Identity is the emulated receiver's identity.
	Identity string
}

// WakeResult describes a completed wake.
type WakeResult struct {
	Success    bool
	RemoteName string
	DeviceID   string
}
