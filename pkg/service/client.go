package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PendoNL/spotify-connect-go/pkg/log"
	"github.com/PendoNL/spotify-connect-go/pkg/wire"
)

// fetchInfo issues action=getInfo against a candidate handshake path.
// Transport failures surface as-is (retryable by the caller); a non-2xx
// HTTP status or undecodable body is a protocol failure.
func (s *Service) fetchInfo(ctx context.Context, hostPort, path string) (*wire.GetInfoResponse, error) {
	u := url.URL{
		Scheme:   "http",
		Host:     hostPort,
		Path:     path,
		RawQuery: url.Values{"action": {"getInfo"}, "version": {wire.ClientVersion}}.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOut,
		Category:  log.CategoryHandshake,
		Peer:      hostPort,
		Action:    "getInfo",
		Status:    resp.StatusCode,
	})

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Action: "getInfo", Status: resp.StatusCode, StatusString: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	info, err := wire.DecodeGetInfoResponse(body)
	if err != nil {
		return nil, fmt.Errorf("undecodable getInfo response: %w", err)
	}
	return info, nil
}

// GetInfo probes a receiver's handshake endpoint and returns its
// descriptor. The path hint is tried first, then the well-known fallback
// paths, so callers can health-check a receiver without knowing its
// exact CPath.
func (s *Service) GetInfo(ctx context.Context, host string, port int, pathHint string) (*wire.GetInfoResponse, error) {
	hostPort := fmt.Sprintf("%s:%d", host, port)

	var lastErr error
	for _, candidate := range candidatePaths(pathHint) {
		info, err := s.fetchInfo(ctx, hostPort, candidate)
		if err != nil {
			lastErr = err
			continue
		}
		return info, nil
	}
	return nil, fmt.Errorf("no handshake endpoint at %s: %w", hostPort, lastErr)
}

// postAction issues a form-encoded handshake POST and decodes the
// acknowledgement.
func (s *Service) postAction(ctx context.Context, hostPort, path string, form url.Values) (*wire.AddUserResponse, error) {
	u := url.URL{Scheme: "http", Host: hostPort, Path: path}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	action := form.Get("action")
	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOut,
		Category:  log.CategoryHandshake,
		Peer:      hostPort,
		Action:    action,
		Status:    resp.StatusCode,
	})

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Action: action, Status: resp.StatusCode, StatusString: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	ack, err := wire.DecodeAddUserResponse(body)
	if err != nil {
		return nil, fmt.Errorf("undecodable %s response: %w", action, err)
	}
	return ack, nil
}
