package blob

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/PendoNL/spotify-connect-go/pkg/wire"
)

func TestCredentialRoundTrip(t *testing.T) {
	secretA, secretB := handshakePair(t)
	const identity = "emulated-receiver-identity"

	rec := &wire.CredentialRecord{
		UserName: "alice",
		AuthType: 1,
		AuthData: []byte("deadbeef"),
	}

	sealed, err := EncryptCredential(rec, identity, secretA)
	if err != nil {
		t.Fatalf("EncryptCredential() error = %v", err)
	}

	got, err := DecryptCredential(secretB, identity, rec.UserName, sealed)
	if err != nil {
		t.Fatalf("DecryptCredential() error = %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip = %+v, want %+v", got, rec)
	}
}

func TestCredentialWrongIdentity(t *testing.T) {
	secretA, secretB := handshakePair(t)

	rec := &wire.CredentialRecord{
		UserName: "alice",
		AuthType: 1,
		AuthData: bytes.Repeat([]byte{0xEE}, 40),
	}

	sealed, err := EncryptCredential(rec, "receiver-a", secretA)
	if err != nil {
		t.Fatalf("EncryptCredential() error = %v", err)
	}

	// The wrong identity passes the session-layer MAC (trust there is
	// transitive) but the inner garbage must not parse as the record.
	got, err := DecryptCredential(secretB, "receiver-b", rec.UserName, sealed)
	if err == nil && reflect.DeepEqual(got, rec) {
		t.Error("decryption under a different identity reproduced the record")
	}
}

func TestCredentialTamperRejected(t *testing.T) {
	secretA, secretB := handshakePair(t)

	rec := &wire.CredentialRecord{UserName: "alice", AuthType: 1, AuthData: []byte("data")}
	sealed, err := EncryptCredential(rec, "id", secretA)
	if err != nil {
		t.Fatalf("EncryptCredential() error = %v", err)
	}

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)/2] ^= 0x80

	if _, err := DecryptCredential(secretB, "id", rec.UserName, tampered); !errors.Is(err, ErrIntegrity) {
		t.Errorf("DecryptCredential(tampered) error = %v, want ErrIntegrity", err)
	}
}
