package wire

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord indicates that decrypted bytes do not parse as a
// credential record.
var ErrMalformedRecord = errors.New("malformed credential record")

// Field marker bytes emitted before each record field.
const (
	markerUserName = 'I'
	markerAuthType = 'P'
	markerAuthData = 'Q'
)

// CredentialRecord is the decoded logical form of a credential blob.
type CredentialRecord struct {
	// UserName is the account name the credential belongs to.
	UserName string

	// AuthType identifies the authentication mechanism of AuthData.
	AuthType int

	// AuthData is the opaque authentication payload.
	AuthData []byte
}

// EncodeRecord serializes a credential record into the binary form
// embedded inside the encrypted blob.
func EncodeRecord(rec *CredentialRecord) ([]byte, error) {
	buf := make([]byte, 0, 4+len(rec.UserName)+len(rec.AuthData)+6)

	buf = append(buf, markerUserName)
	buf, err := AppendPrefixed(buf, []byte(rec.UserName))
	if err != nil {
		return nil, fmt.Errorf("username: %w", err)
	}

	buf = append(buf, markerAuthType)
	buf, err = AppendVarint(buf, rec.AuthType)
	if err != nil {
		return nil, fmt.Errorf("auth type: %w", err)
	}

	buf = append(buf, markerAuthData)
	buf, err = AppendPrefixed(buf, rec.AuthData)
	if err != nil {
		return nil, fmt.Errorf("auth data: %w", err)
	}

	return buf, nil
}

// DecodeRecord parses a decrypted buffer into a credential record.
// Marker bytes are skipped without validation; any read past the end of
// the buffer fails with ErrMalformedRecord.
func DecodeRecord(buf []byte) (*CredentialRecord, error) {
	r := newReader(buf)
	rec := &CredentialRecord{}

	if _, err := r.readByte(); err != nil {
		return nil, ErrMalformedRecord
	}
	userName, err := r.readPrefixed()
	if err != nil {
		return nil, ErrMalformedRecord
	}
	rec.UserName = string(userName)

	if _, err := r.readByte(); err != nil {
		return nil, ErrMalformedRecord
	}
	rec.AuthType, err = r.readVarint()
	if err != nil {
		return nil, ErrMalformedRecord
	}

	if _, err := r.readByte(); err != nil {
		return nil, ErrMalformedRecord
	}
	authData, err := r.readPrefixed()
	if err != nil {
		return nil, ErrMalformedRecord
	}
	// Copy out so the record does not alias the caller's buffer.
	rec.AuthData = append([]byte(nil), authData...)

	return rec, nil
}
