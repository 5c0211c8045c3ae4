package wire

import "encoding/json"

// ClientVersion is the version parameter sent with getInfo requests.
const ClientVersion = "2.7.1"

// Protocol status codes carried in handshake responses.
const (
	// StatusOK denotes success.
	StatusOK = 101

	// StatusErrorInvalidAction is returned for unknown actions.
	StatusErrorInvalidAction = 301
)

// Status strings matching the codes above.
const (
	StatusStringOK            = "OK"
	StatusStringInvalidAction = "ERROR-INVALID-ACTION"
)

// GetInfoResponse is the receiver descriptor returned for action=getInfo.
type GetInfoResponse struct {
	Status       int    `json:"status"`
	StatusString string `json:"statusString"`
	SpotifyError int    `json:"spotifyError"`

	// Version is the ZeroConf API version string.
	Version string `json:"version"`

	// DeviceID is the receiver's stable identity. It doubles as key
	// material for the identity layer of the blob cipher.
	DeviceID string `json:"deviceID"`

	// RemoteName is the user-visible receiver name.
	RemoteName string `json:"remoteName"`

	// ActiveUser is the currently logged-in account, empty if none.
	ActiveUser string `json:"activeUser"`

	// PublicKey is the receiver's base64 Diffie-Hellman public key for
	// the current session.
	PublicKey string `json:"publicKey"`

	// DeviceType is the receiver class (SPEAKER, AVR, TV, ...).
	DeviceType string `json:"deviceType"`

	// Capability metadata expected by real clients.
	LibraryVersion        string `json:"libraryVersion,omitempty"`
	AccountReq            string `json:"accountReq,omitempty"`
	BrandDisplayName      string `json:"brandDisplayName,omitempty"`
	ModelDisplayName      string `json:"modelDisplayName,omitempty"`
	ResolverVersion       string `json:"resolverVersion,omitempty"`
	GroupStatus           string `json:"groupStatus,omitempty"`
	TokenType             string `json:"tokenType,omitempty"`
	ClientID              string `json:"clientID,omitempty"`
	Scope                 string `json:"scope,omitempty"`
	Availability          string `json:"availability,omitempty"`
	SupportedCapabilities int    `json:"supported_capabilities,omitempty"`
}

// OK reports whether the descriptor denotes protocol success.
func (r *GetInfoResponse) OK() bool {
	return r.Status == StatusOK
}

// AddUserResponse acknowledges action=addUser and action=resetUsers.
type AddUserResponse struct {
	Status       int    `json:"status"`
	StatusString string `json:"statusString"`
	SpotifyError int    `json:"spotifyError"`
}

// OK reports whether the acknowledgement denotes protocol success.
func (r *AddUserResponse) OK() bool {
	return r.Status == StatusOK
}

// EncodeGetInfoResponse encodes a receiver descriptor to JSON.
func EncodeGetInfoResponse(resp *GetInfoResponse) ([]byte, error) {
	return json.Marshal(resp)
}

// DecodeGetInfoResponse decodes JSON bytes into a receiver descriptor.
func DecodeGetInfoResponse(data []byte) (*GetInfoResponse, error) {
	var resp GetInfoResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EncodeAddUserResponse encodes an acknowledgement to JSON.
func EncodeAddUserResponse(resp *AddUserResponse) ([]byte, error) {
	return json.Marshal(resp)
}

// DecodeAddUserResponse decodes JSON bytes into an acknowledgement.
func DecodeAddUserResponse(data []byte) (*AddUserResponse, error) {
	var resp AddUserResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
