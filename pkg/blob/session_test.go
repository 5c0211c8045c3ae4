package blob

import (
	"bytes"
	"errors"
	"testing"

	"github.com/PendoNL/spotify-connect-go/pkg/dh"
)

// handshakePair generates two key pairs and the shared secret each side
// derives from the other's public key.
func handshakePair(t *testing.T) (secretA, secretB []byte) {
	t.Helper()

	a, err := dh.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := dh.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	secretA, err = a.SharedSecret(b.PublicKey())
	if err != nil {
		t.Fatalf("SharedSecret() error = %v", err)
	}
	secretB, err = b.SharedSecret(a.PublicKey())
	if err != nil {
		t.Fatalf("SharedSecret() error = %v", err)
	}
	return secretA, secretB
}

func TestSessionRoundTrip(t *testing.T) {
	secretA, secretB := handshakePair(t)
	payload := []byte("the credential payload")

	sealed, err := EncryptSession(secretA, payload)
	if err != nil {
		t.Fatalf("EncryptSession() error = %v", err)
	}
	if len(sealed) != ivSize+len(payload)+macSize {
		t.Errorf("sealed length = %d, want %d", len(sealed), ivSize+len(payload)+macSize)
	}

	// The peer derives the same secret from the opposite key halves.
	got, err := DecryptSession(secretB, sealed)
	if err != nil {
		t.Fatalf("DecryptSession() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip = %q, want %q", got, payload)
	}
}

func TestSessionFreshIV(t *testing.T) {
	secret, _ := handshakePair(t)
	payload := []byte("same payload")

	first, err := EncryptSession(secret, payload)
	if err != nil {
		t.Fatalf("EncryptSession() error = %v", err)
	}
	second, err := EncryptSession(secret, payload)
	if err != nil {
		t.Fatalf("EncryptSession() error = %v", err)
	}

	if bytes.Equal(first[:ivSize], second[:ivSize]) {
		t.Error("two encryptions reused an IV")
	}
}

func TestSessionBitFlipRejected(t *testing.T) {
	secret, _ := handshakePair(t)
	payload := []byte("must never leak on tamper")

	sealed, err := EncryptSession(secret, payload)
	if err != nil {
		t.Fatalf("EncryptSession() error = %v", err)
	}

	// Flip one bit at every position in the ciphertext and in the MAC.
	for pos := ivSize; pos < len(sealed); pos++ {
		tampered := append([]byte(nil), sealed...)
		tampered[pos] ^= 0x01

		plain, err := DecryptSession(secret, tampered)
		if !errors.Is(err, ErrIntegrity) {
			t.Fatalf("DecryptSession(flip at %d) error = %v, want ErrIntegrity", pos, err)
		}
		if plain != nil {
			t.Fatalf("DecryptSession(flip at %d) returned plaintext", pos)
		}
	}
}

func TestSessionTooShort(t *testing.T) {
	secret, _ := handshakePair(t)

	for _, n := range []int{0, 1, ivSize, ivSize + macSize - 1} {
		if _, err := DecryptSession(secret, make([]byte, n)); !errors.Is(err, ErrIntegrity) {
			t.Errorf("DecryptSession(%d bytes) error = %v, want ErrIntegrity", n, err)
		}
	}
}

func TestSessionWrongSecret(t *testing.T) {
	secretA, _ := handshakePair(t)
	other, _ := handshakePair(t)

	sealed, err := EncryptSession(secretA, []byte("payload"))
	if err != nil {
		t.Fatalf("EncryptSession() error = %v", err)
	}
	if _, err := DecryptSession(other, sealed); !errors.Is(err, ErrIntegrity) {
		t.Errorf("DecryptSession(wrong secret) error = %v, want ErrIntegrity", err)
	}
}
