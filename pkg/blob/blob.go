package blob

import (
	"crypto/aes"
	"encoding/base64"

	"github.com/PendoNL/spotify-connect-go/pkg/wire"
)

// DecryptCredential runs the full capture-side pipeline: the session
// layer, the identity layer when the session plaintext decodes as base64
// text, then the record codec. identity is the local receiver identity
// the submitting client encrypted against.
func DecryptCredential(sharedSecret []byte, identity, userName string, data []byte) (*wire.CredentialRecord, error) {
	plain, err := DecryptSession(sharedSecret, data)
	if err != nil {
		return nil, err
	}

	// Two-layer blobs carry the identity layer as base64 text. Blobs
	// that do not decode stay single-layer and parse directly.
	if inner, err := base64.StdEncoding.DecodeString(string(plain)); err == nil {
		plain, err = DecryptIdentity(identity, userName, inner)
		if err != nil {
			return nil, err
		}
	}

	return wire.DecodeRecord(plain)
}

// EncryptCredential runs the wake-side pipeline in the exact reverse
// order: record codec, identity layer against the target's identity,
// session layer against the shared secret with the target's public key.
func EncryptCredential(rec *wire.CredentialRecord, targetIdentity string, sharedSecret []byte) ([]byte, error) {
	encoded, err := wire.EncodeRecord(rec)
	if err != nil {
		return nil, err
	}

	// Zero padding to the block size; the decoder ignores trailing bytes.
	if rem := len(encoded) % aes.BlockSize; rem != 0 {
		encoded = append(encoded, make([]byte, aes.BlockSize-rem)...)
	}

	inner, err := EncryptIdentity(targetIdentity, rec.UserName, encoded)
	if err != nil {
		return nil, err
	}

	text := base64.StdEncoding.EncodeToString(inner)
	return EncryptSession(sharedSecret, []byte(text))
}
