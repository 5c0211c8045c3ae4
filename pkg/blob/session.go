package blob

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"errors"
	"fmt"
)

const (
	ivSize  = 16
	macSize = sha1.Size
)

// ErrIntegrity indicates a session-layer MAC mismatch. The associated
// plaintext must never be used or stored.
var ErrIntegrity = errors.New("blob integrity check failed")

// sessionKeys derives the encryption and checksum keys from a
// Diffie-Hellman shared secret.
func sessionKeys(secret []byte) (encKey, checksumKey []byte) {
	base := sha1.Sum(secret)
	baseKey := base[:16]

	mac := hmac.New(sha1.New, baseKey)
	mac.Write([]byte("checksum"))
	checksumKey = mac.Sum(nil)

	mac = hmac.New(sha1.New, baseKey)
	mac.Write([]byte("encryption"))
	encKey = mac.Sum(nil)[:16]

	return encKey, checksumKey
}

// EncryptSession seals payload under the session layer:
// IV(16) || AES-128-CTR ciphertext || HMAC-SHA1(checksumKey, ciphertext).
func EncryptSession(secret, payload []byte) ([]byte, error) {
	encKey, checksumKey := sessionKeys(secret)

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}

	out := make([]byte, ivSize+len(payload)+macSize)
	copy(out, iv)

	ct := out[ivSize : ivSize+len(payload)]
	cipher.NewCTR(block, iv).XORKeyStream(ct, payload)

	mac := hmac.New(sha1.New, checksumKey)
	mac.Write(ct)
	copy(out[ivSize+len(payload):], mac.Sum(nil))

	return out, nil
}

// DecryptSession verifies and opens a session-layer blob. The MAC is
// checked in constant time before any decryption happens.
func DecryptSession(secret, data []byte) ([]byte, error) {
	if len(data) < ivSize+macSize {
		return nil, fmt.Errorf("%w: blob too short (%d bytes)", ErrIntegrity, len(data))
	}

	encKey, checksumKey := sessionKeys(secret)

	iv := data[:ivSize]
	ct := data[ivSize : len(data)-macSize]
	tag := data[len(data)-macSize:]

	mac := hmac.New(sha1.New, checksumKey)
	mac.Write(ct)
	if subtle.ConstantTimeCompare(mac.Sum(nil), tag) != 1 {
		return nil, ErrIntegrity
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}

	plain := make([]byte, len(ct))
	cipher.NewCTR(block, iv).XORKeyStream(plain, ct)
	return plain, nil
}
