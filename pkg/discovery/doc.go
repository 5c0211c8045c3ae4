// Package discovery implements mDNS/DNS-SD discovery for Connect
// receivers.
//
// Receivers advertise the _spotify-connect._tcp service. TXT records
// carry at least:
//
//   - CPath: the HTTP path serving the handshake actions
//   - VERSION: the ZeroConf API version string
//   - Stack: the protocol stack identifier (SP)
//
// The advertised port is the receiver's handshake HTTP port and may
// change between sessions for the same logical receiver; the Registry's
// Refresh exists to re-resolve a peer whose cached port went stale.
//
// The Registry keys peers by advertised instance name. A newer
// advertisement for a known name replaces the old record outright; there
// is no merging.
package discovery
