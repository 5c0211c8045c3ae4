package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PendoNL/spotify-connect-go/pkg/blob"
	"github.com/PendoNL/spotify-connect-go/pkg/dh"
	"github.com/PendoNL/spotify-connect-go/pkg/discovery"
	"github.com/PendoNL/spotify-connect-go/pkg/log"
	"github.com/PendoNL/spotify-connect-go/pkg/persistence"
	"github.com/PendoNL/spotify-connect-go/pkg/wire"
)

// StartCapture starts a receiver-emulation session: it generates the
// session key pair, binds the handshake responder on an ephemeral port
// and advertises the service under the given name. Fails with
// ErrAlreadyPublishing while a session is active.
//
// An in-flight credential submission is encrypted against the session's
// key pair, so starting must never silently replace it.
func (s *Service) StartCapture(ctx context.Context, name string) (*CaptureInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StatePublishing {
		return nil, ErrAlreadyPublishing
	}
	if name == "" {
		name = s.config.RemoteName
	}

	keypair, err := dh.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session key pair: %w", err)
	}

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to bind responder: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	server := &http.Server{Handler: http.HandlerFunc(s.handleHandshake)}
	go func() {
		_ = server.Serve(listener)
	}()

	err = s.advertiser.Advertise(ctx, &discovery.ServiceInfo{
		InstanceName: name,
		Port:         port,
		CPath:        s.config.CPath,
		Version:      discovery.Version,
	})
	if err != nil {
		_ = server.Close()
		return nil, fmt.Errorf("failed to advertise receiver: %w", err)
	}

	s.keypair = keypair
	s.listener = listener
	s.httpServer = server
	s.instanceName = name
	s.state = StatePublishing

	s.debugf("capture session publishing", "name", name, "port", port)
	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOut,
		Category:  log.CategoryDiscovery,
		Peer:      name,
		Action:    "advertise",
	})

	info := &CaptureInfo{Port: port, Identity: s.identity}
	go s.emit(Event{Type: EventCaptureStarted, Name: name})
	return info, nil
}

// StopCapture withdraws the advertisement and closes the responder.
// Idempotent.
func (s *Service) StopCapture() error {
	s.mu.Lock()
	if s.state != StatePublishing {
		s.mu.Unlock()
		return nil
	}

	name := s.instanceName
	server := s.httpServer

	s.keypair = nil
	s.listener = nil
	s.httpServer = nil
	s.instanceName = ""
	s.state = StateIdle
	s.mu.Unlock()

	advErr := s.advertiser.Stop()
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}

	s.debugf("capture session stopped", "name", name)
	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOut,
		Category:  log.CategoryDiscovery,
		Peer:      name,
		Action:    "withdraw",
	})
	s.emit(Event{Type: EventCaptureStopped, Name: name})
	return advErr
}

// handleHandshake serves the receiver's handshake surface: getInfo,
// addUser and resetUsers, switched on the action parameter.
func (s *Service) handleHandshake(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err == nil && r.PostForm.Get("action") != "" {
			action = r.PostForm.Get("action")
		}
	}

	switch action {
	case "getInfo":
		s.handleGetInfo(w, r)
	case "addUser":
		s.handleAddUser(w, r)
	case "resetUsers":
		// The emulator has no session to tear down; acknowledge.
		writeJSON(w, &wire.AddUserResponse{
			Status:       wire.StatusOK,
			StatusString: wire.StatusStringOK,
		})
	default:
		writeJSON(w, &wire.AddUserResponse{
			Status:       wire.StatusErrorInvalidAction,
			StatusString: wire.StatusStringInvalidAction,
		})
	}
}

// handleGetInfo returns the receiver descriptor real clients expect.
func (s *Service) handleGetInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	identity := s.identity
	name := s.instanceName
	keypair := s.keypair
	s.mu.Unlock()

	if keypair == nil {
		// Session torn down between accept and dispatch.
		writeJSON(w, &wire.AddUserResponse{
			Status:       wire.StatusErrorInvalidAction,
			StatusString: wire.StatusStringInvalidAction,
		})
		return
	}

	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Category:  log.CategoryHandshake,
		Peer:      r.RemoteAddr,
		Action:    "getInfo",
	})

	writeJSON(w, &wire.GetInfoResponse{
		Status:                wire.StatusOK,
		StatusString:          wire.StatusStringOK,
		Version:               discovery.Version,
		DeviceID:              identity,
		RemoteName:            name,
		ActiveUser:            "",
		PublicKey:             keypair.PublicKeyBase64(),
		DeviceType:            s.config.DeviceType,
		BrandDisplayName:      s.config.Brand,
		ModelDisplayName:      s.config.Model,
		AccountReq:            "PREMIUM",
		SupportedCapabilities: 1,
	})
}

// handleAddUser runs the decrypt pipeline over a credential submission.
// The credential is stored regardless of decrypt success so the raw
// material is never silently lost, and the response is always a protocol
// success: rejection is not surfaced to the submitting client.
func (s *Service) handleAddUser(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	userName := r.PostForm.Get("userName")
	blobField := r.PostForm.Get("blob")
	clientKeyField := r.PostForm.Get("clientKey")

	s.mu.Lock()
	identity := s.identity
	keypair := s.keypair
	name := s.instanceName
	s.mu.Unlock()

	rawBlob, blobErr := base64.StdEncoding.DecodeString(blobField)
	if blobErr != nil {
		rawBlob = []byte(blobField)
	}
	rawKey, keyErr := base64.StdEncoding.DecodeString(clientKeyField)
	if keyErr != nil {
		rawKey = []byte(clientKeyField)
	}

	var decoded *persistence.DecodedCredential
	var pipelineErr error
	switch {
	case keypair == nil:
		pipelineErr = fmt.Errorf("no live session key pair")
	case blobErr != nil:
		pipelineErr = fmt.Errorf("blob field is not base64: %w", blobErr)
	default:
		var secret []byte
		secret, pipelineErr = keypair.SharedSecret(rawKey)
		if pipelineErr == nil {
			var rec *wire.CredentialRecord
			rec, pipelineErr = blob.DecryptCredential(secret, identity, userName, rawBlob)
			if pipelineErr == nil {
				decoded = &persistence.DecodedCredential{
					AuthType: rec.AuthType,
					AuthData: rec.AuthData,
				}
			}
		}
	}

	cred := &persistence.StoredCredential{
		UserName:   userName,
		Blob:       rawBlob,
		ClientKey:  rawKey,
		Decoded:    decoded,
		CapturedAt: time.Now(),
		Identity:   identity,
	}

	s.mu.Lock()
	s.credential = cred
	persistErr := s.persist()
	s.mu.Unlock()

	if pipelineErr != nil {
		s.debugf("credential capture failed decrypt", "user", userName, "err", pipelineErr)
	}
	if persistErr != nil {
		s.debugf("failed to persist captured credential", "err", persistErr)
	}

	event := log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Category:  log.CategoryCapture,
		Peer:      r.RemoteAddr,
		Action:    "addUser",
		UserName:  userName,
		Decoded:   decoded != nil,
	}
	if pipelineErr != nil {
		event.Err = pipelineErr.Error()
	}
	s.plog.Log(event)

	s.emit(Event{
		Type:     EventCredentialCaptured,
		Name:     name,
		UserName: userName,
		Usable:   decoded != nil,
	})

	// Always acknowledge: the submitting client is not told about
	// decrypt failures.
	writeJSON(w, &wire.AddUserResponse{
		Status:       wire.StatusOK,
		StatusString: wire.StatusStringOK,
	})
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, v any) {
	var data []byte
	var err error
	switch resp := v.(type) {
	case *wire.GetInfoResponse:
		data, err = wire.EncodeGetInfoResponse(resp)
	case *wire.AddUserResponse:
		data, err = wire.EncodeAddUserResponse(resp)
	default:
		err = fmt.Errorf("unsupported response type %T", v)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
