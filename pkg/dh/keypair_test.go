package dh

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func TestGenerate(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(a.PublicKey()) != KeySize {
		t.Errorf("PublicKey() length = %d, want %d", len(a.PublicKey()), KeySize)
	}
	if bytes.Equal(a.PublicKey(), b.PublicKey()) {
		t.Error("two generated key pairs share a public key")
	}
}

func TestSharedSecretAgreement(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	ab, err := a.SharedSecret(b.PublicKey())
	if err != nil {
		t.Fatalf("SharedSecret() error = %v", err)
	}
	ba, err := b.SharedSecret(a.PublicKey())
	if err != nil {
		t.Fatalf("SharedSecret() error = %v", err)
	}

	if !bytes.Equal(ab, ba) {
		t.Error("shared secrets disagree")
	}
	if len(ab) == 0 {
		t.Error("shared secret is empty")
	}
}

func TestParsePublicKey(t *testing.T) {
	kp, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	raw, err := ParsePublicKey(kp.PublicKeyBase64())
	if err != nil {
		t.Fatalf("ParsePublicKey() error = %v", err)
	}
	if !bytes.Equal(raw, kp.PublicKey()) {
		t.Error("ParsePublicKey() did not return the original key bytes")
	}
}

func TestInvalidPublicKeys(t *testing.T) {
	kp, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name string
		key  []byte
	}{
		{name: "empty", key: nil},
		{name: "zero", key: []byte{0}},
		{name: "one", key: []byte{1}},
		{name: "oversized", key: make([]byte, KeySize+1)},
		{name: "prime minus one", key: func() []byte {
			b := append([]byte(nil), primeBytes...)
			b[len(b)-1]--
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := kp.SharedSecret(tt.key); !errors.Is(err, ErrInvalidPublicKey) {
				t.Errorf("SharedSecret() error = %v, want ErrInvalidPublicKey", err)
			}
		})
	}

	if _, err := ParsePublicKey("not base64!!"); !errors.Is(err, ErrInvalidPublicKey) {
		t.Errorf("ParsePublicKey(garbage) error = %v, want ErrInvalidPublicKey", err)
	}
	short := base64.StdEncoding.EncodeToString([]byte{0})
	if _, err := ParsePublicKey(short); !errors.Is(err, ErrInvalidPublicKey) {
		t.Errorf("ParsePublicKey(short) error = %v, want ErrInvalidPublicKey", err)
	}
}
