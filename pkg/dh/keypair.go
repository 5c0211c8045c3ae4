package dh

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidPublicKey indicates a peer public key that is missing,
// undersized, oversized or outside the group. Fatal for the session.
var ErrInvalidPublicKey = errors.New("invalid peer public key")

// KeyPair is an ephemeral Diffie-Hellman key pair. It must not be reused
// across handshake sessions and is never persisted.
type KeyPair struct {
	private *big.Int
	public  *big.Int
}

// Generate produces a fresh key pair over the protocol group.
func Generate() (*KeyPair, error) {
	// Uniform in [1, p-1).
	private, err := rand.Int(rand.Reader, new(big.Int).Sub(prime, big.NewInt(2)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	private.Add(private, big.NewInt(1))

	public := new(big.Int).Exp(generator, private, prime)
	return &KeyPair{private: private, public: public}, nil
}

// PublicKey returns the public key as a fixed KeySize-byte big-endian value.
func (k *KeyPair) PublicKey() []byte {
	buf := make([]byte, KeySize)
	return k.public.FillBytes(buf)
}

// PublicKeyBase64 returns the public key in its wire encoding.
func (k *KeyPair) PublicKeyBase64() string {
	return base64.StdEncoding.EncodeToString(k.PublicKey())
}

// SharedSecret computes the raw shared-secret bytes from our private key
// and the peer's public key bytes. Leading zero bytes of the secret are
// trimmed; both sides of the handshake use this convention.
func (k *KeyPair) SharedSecret(peerPublic []byte) ([]byte, error) {
	pub, err := validatePublicKey(peerPublic)
	if err != nil {
		return nil, err
	}
	secret := new(big.Int).Exp(pub, k.private, prime)
	return secret.Bytes(), nil
}

// ParsePublicKey decodes a base64 peer public key and validates it
// against the group.
func ParsePublicKey(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if _, err := validatePublicKey(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// validatePublicKey checks length and group membership.
func validatePublicKey(raw []byte) (*big.Int, error) {
	if len(raw) == 0 || len(raw) > KeySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidPublicKey, len(raw))
	}
	pub := new(big.Int).SetBytes(raw)
	// Reject 0, 1 and p-1: they collapse the shared secret.
	if pub.Cmp(big.NewInt(2)) < 0 {
		return nil, ErrInvalidPublicKey
	}
	if pub.Cmp(new(big.Int).Sub(prime, big.NewInt(1))) >= 0 {
		return nil, ErrInvalidPublicKey
	}
	return pub, nil
}
