package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/PendoNL/spotify-connect-go/pkg/blob"
	"github.com/PendoNL/spotify-connect-go/pkg/dh"
	"github.com/PendoNL/spotify-connect-go/pkg/log"
	"github.com/PendoNL/spotify-connect-go/pkg/wire"
)

// fallbackPaths are probed, after any hint, to find the handshake
// surface of receivers that do not advertise a CPath.
var fallbackPaths = []string{"/zc", "/", "/zeroconf"}

// Wake resolves a receiver by discovered name or host and installs the
// stored credential on it. The peer registry is refreshed first because
// receivers may re-advertise on a different ephemeral port; when the
// target is not discoverable but a port is given, the name is dialed as
// a host directly.
func (s *Service) Wake(ctx context.Context, nameOrHost string, port int) (*WakeResult, error) {
	s.mu.Lock()
	timeout := s.config.RefreshTimeout
	s.mu.Unlock()

	peer, err := s.registry.Refresh(nameOrHost, timeout)
	if err == nil {
		return s.WakeByAddress(ctx, peer.Addr(), peer.Port, peer.CPath())
	}
	if port > 0 {
		return s.WakeByAddress(ctx, nameOrHost, port, "")
	}
	return nil, fmt.Errorf("%w: %s", ErrUnreachable, nameOrHost)
}

// WakeByAddress drives the handshake against a receiver at a known
// address. It probes candidate handshake paths with getInfo, disconnects
// an active user session best-effort, then encrypts the stored
// credential for the target and submits it.
func (s *Service) WakeByAddress(ctx context.Context, host string, port int, pathHint string) (result *WakeResult, err error) {
	defer func() {
		s.emit(Event{Type: EventWakeCompleted, Target: host, Err: err})
	}()

	s.mu.Lock()
	cred := s.credential
	identity := s.identity
	settle := s.config.SettleDelay
	s.mu.Unlock()

	if !cred.Usable(identity) {
		return nil, ErrNoCredential
	}

	hostPort := net.JoinHostPort(host, strconv.Itoa(port))

	// Probe candidate paths until one serves a descriptor.
	var info *wire.GetInfoResponse
	var path string
	for _, candidate := range candidatePaths(pathHint) {
		probe, probeErr := s.fetchInfo(ctx, hostPort, candidate)
		if probeErr != nil {
			s.debugf("handshake path probe failed", "target", hostPort, "path", candidate, "err", probeErr)
			continue
		}
		if probe.OK() && probe.DeviceID != "" {
			info, path = probe, candidate
			break
		}
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, hostPort)
	}

	// Ask an already logged-in receiver to drop its session first. The
	// request is best-effort; refusal only risks the submission being
	// ignored, which surfaces below.
	if info.ActiveUser != "" {
		if _, resetErr := s.postAction(ctx, hostPort, path, url.Values{"action": {"resetUsers"}}); resetErr != nil {
			s.debugf("resetUsers failed", "target", hostPort, "err", resetErr)
		}
		sleepCtx(ctx, settle)
	}

	// Fresh key pair per wake session, never reused from the capture.
	keypair, err := dh.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session key pair: %w", err)
	}
	peerKey, err := dh.ParsePublicKey(info.PublicKey)
	if err != nil {
		return nil, err
	}
	secret, err := keypair.SharedSecret(peerKey)
	if err != nil {
		return nil, err
	}

	sealed, err := blob.EncryptCredential(&wire.CredentialRecord{
		UserName: cred.UserName,
		AuthType: cred.Decoded.AuthType,
		AuthData: cred.Decoded.AuthData,
	}, info.DeviceID, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt credential: %w", err)
	}

	ack, err := s.postAction(ctx, hostPort, path, url.Values{
		"action":    {"addUser"},
		"userName":  {cred.UserName},
		"blob":      {base64.StdEncoding.EncodeToString(sealed)},
		"clientKey": {keypair.PublicKeyBase64()},
	})
	if err != nil {
		return nil, err
	}
	if !ack.OK() {
		return nil, fmt.Errorf("%w: status %d (%s)", ErrCredentialRejected, ack.Status, ack.StatusString)
	}

	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOut,
		Category:  log.CategoryWake,
		Peer:      hostPort,
		Action:    "addUser",
		Status:    ack.Status,
		UserName:  cred.UserName,
	})

	// Give the receiver time to complete the login before reporting.
	sleepCtx(ctx, settle)

	return &WakeResult{
		Success:    true,
		RemoteName: info.RemoteName,
		DeviceID:   info.DeviceID,
	}, nil
}

// candidatePaths returns the probe order: the hint first, then the fixed
// fallbacks, without duplicates.
func candidatePaths(hint string) []string {
	paths := make([]string, 0, len(fallbackPaths)+1)
	seen := make(map[string]bool)
	for _, p := range append([]string{hint}, fallbackPaths...) {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	return paths
}

// sleepCtx waits for the duration or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
