package discovery

import (
	"errors"
	"net"
	"strconv"
	"time"
)

// Service constants.
const (
	// ServiceName is the DNS-SD service type receivers advertise.
	ServiceName = "_spotify-connect._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// Version is the ZeroConf API version string advertised in TXT
	// records and descriptors.
	Version = "1.0"

	// Stack identifies the protocol stack in TXT records.
	Stack = "SP"

	// DefaultCPath is the handshake path advertised by the emulator.
	DefaultCPath = "/zc"
)

// TXT record keys.
const (
	TXTKeyCPath   = "CPath"
	TXTKeyVersion = "VERSION"
	TXTKeyStack   = "Stack"
)

// Discovery errors.
var (
	// ErrNotFound indicates no peer matched within the allotted time.
	ErrNotFound = errors.New("peer not found")

	// ErrMissingRequired indicates incomplete service information.
	ErrMissingRequired = errors.New("missing required service information")
)

// ServiceInfo describes the service an emulated receiver advertises.
type ServiceInfo struct {
	// InstanceName is the advertised receiver name.
	InstanceName string

	// Port is the handshake HTTP port.
	Port int

	// CPath is the HTTP path serving the handshake actions.
	CPath string

	// Version is the ZeroConf API version string.
	Version string
}

// Validate checks that required fields are present.
func (i *ServiceInfo) Validate() error {
	if i.InstanceName == "" || i.Port == 0 || i.CPath == "" {
		return ErrMissingRequired
	}
	return nil
}

// Peer describes a receiver seen via discovery. A Peer is superseded,
// not merged, by a newer advertisement with the same name.
type Peer struct {
	// Name is the advertised instance name.
	Name string

	// Host is the advertised hostname.
	Host string

	// Addresses are the resolved IP addresses, IPv4 first.
	Addresses []string

	// Port is the handshake HTTP port from this advertisement.
	Port int

	// TXT holds the advertisement's TXT attributes.
	TXT map[string]string

	// DiscoveredAt is when this advertisement was seen.
	DiscoveredAt time.Time
}

// CPath returns the advertised handshake path, empty if absent.
func (p *Peer) CPath() string {
	return p.TXT[TXTKeyCPath]
}

// Addr returns the peer's preferred dial address: the first resolved IP,
// falling back to the advertised hostname.
func (p *Peer) Addr() string {
	if len(p.Addresses) > 0 {
		return p.Addresses[0]
	}
	return p.Host
}

// HostPort returns the peer's dial address joined with its port.
func (p *Peer) HostPort() string {
	return net.JoinHostPort(p.Addr(), strconv.Itoa(p.Port))
}
