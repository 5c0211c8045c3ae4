package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// State contains the persisted runtime state of the Connect service.
type State struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Identity is the stable self-assigned identifier of the emulated
	// receiver. Created once, reused across sessions.
	Identity string `json:"identity,omitempty"`

	// Credential is the last captured credential, if any.
	Credential *StoredCredential `json:"credential,omitempty"`
}

// StoredCredential is a credential captured by a receiver-emulation
// session. It is overwritten by the next successful capture.
type StoredCredential struct {
	// UserName is the account name from the submission.
	UserName string `json:"user_name"`

	// Blob is the raw encrypted blob bytes as submitted.
	Blob []byte `json:"blob"`

	// ClientKey is the submitting client's raw public key bytes.
	ClientKey []byte `json:"client_key"`

	// Decoded is the decrypted record, nil when the decrypt pipeline
	// failed. A credential with nil Decoded is not usable for waking.
	Decoded *DecodedCredential `json:"decoded,omitempty"`

	// CapturedAt is when the submission was received.
	CapturedAt time.Time `json:"captured_at"`

	// Identity is the receiver identity the capture ran under. The
	// credential is implicitly invalidated if the identity changes.
	Identity string `json:"identity"`
}

// DecodedCredential mirrors wire.CredentialRecord for JSON serialization.
type DecodedCredential struct {
	AuthType int    `json:"auth_type"`
	AuthData []byte `json:"auth_data"`
}

// Usable reports whether the credential can drive a wake under the given
// identity.
func (c *StoredCredential) Usable(identity string) bool {
	return c != nil && c.Decoded != nil && c.Identity == identity
}

// StateStore manages persistence of service state to a JSON file.
type StateStore struct {
	mu   sync.Mutex
	path string
}

// NewStateStore creates a new state store.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Save persists the state to disk.
func (s *StateStore) Save(state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	state.SavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}

// Load reads the state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *StateStore) Load() (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Clear removes the state file.
func (s *StateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
