package blob

import (
	"crypto/aes"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 256
	pbkdf2Length     = 20
)

// ErrBlockAlignment indicates an identity-layer payload whose length is
// not a multiple of the AES block size.
var ErrBlockAlignment = errors.New("identity layer payload not block aligned")

// identityKey derives the 24-byte AES-192 key from the receiver identity
// string and the account name.
func identityKey(identity, userName string) []byte {
	secret := sha1.Sum([]byte(identity))
	stretched := pbkdf2.Key(secret[:], []byte(userName), pbkdf2Iterations, pbkdf2Length, sha1.New)
	hashed := sha1.Sum(stretched)

	key := make([]byte, 24)
	copy(key, hashed[:])
	binary.BigEndian.PutUint32(key[20:], pbkdf2Length)
	return key
}

// DecryptIdentity opens an identity-layer payload: AES-192-ECB, then the
// byte-feedback XOR pass over the decrypted buffer from the end toward
// the start. The layer carries no MAC; corrupted input yields garbage
// that fails record parsing downstream.
func DecryptIdentity(identity, userName string, data []byte) ([]byte, error) {
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBlockAlignment, len(data))
	}

	block, err := aes.NewCipher(identityKey(identity, userName))
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		block.Decrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}

	// Feedback pass, highest index first. Each byte folds in the byte 16
	// positions earlier while that byte still holds the raw cipher output.
	for i := len(out) - 1; i >= aes.BlockSize; i-- {
		out[i] ^= out[i-aes.BlockSize]
	}

	return out, nil
}

// EncryptIdentity is the structural inverse of DecryptIdentity: the XOR
// pass in ascending index order, then AES-192-ECB encryption. The payload
// must already be block aligned; credential records are padded by the
// caller before encryption.
func EncryptIdentity(identity, userName string, data []byte) ([]byte, error) {
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBlockAlignment, len(data))
	}

	buf := append([]byte(nil), data...)
	for i := aes.BlockSize; i < len(buf); i++ {
		buf[i] ^= buf[i-aes.BlockSize]
	}

	block, err := aes.NewCipher(identityKey(identity, userName))
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(buf))
	for i := 0; i < len(buf); i += aes.BlockSize {
		block.Encrypt(out[i:i+aes.BlockSize], buf[i:i+aes.BlockSize])
	}

	return out, nil
}
