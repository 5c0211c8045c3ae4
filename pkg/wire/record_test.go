package wire

import (
	"bytes"
	"reflect"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  CredentialRecord
	}{
		{
			name: "typical",
			rec: CredentialRecord{
				UserName: "alice",
				AuthType: 1,
				AuthData: []byte("deadbeef"),
			},
		},
		{
			name: "empty auth data",
			rec: CredentialRecord{
				UserName: "bob",
				AuthType: 0,
				AuthData: []byte{},
			},
		},
		{
			name: "two byte auth type",
			rec: CredentialRecord{
				UserName: "user@example.com",
				AuthType: 300,
				AuthData: []byte{0x00, 0xFF, 0x10},
			},
		},
		{
			name: "long auth data",
			rec: CredentialRecord{
				UserName: "u",
				AuthType: MaxVarint,
				AuthData: bytes.Repeat([]byte{0xAB}, 500),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := EncodeRecord(&tt.rec)
			if err != nil {
				t.Fatalf("EncodeRecord() error = %v", err)
			}

			got, err := DecodeRecord(buf)
			if err != nil {
				t.Fatalf("DecodeRecord() error = %v", err)
			}
			if !reflect.DeepEqual(*got, tt.rec) {
				t.Errorf("round trip = %+v, want %+v", *got, tt.rec)
			}
		})
	}
}

func TestRecordMarkers(t *testing.T) {
	buf, err := EncodeRecord(&CredentialRecord{
		UserName: "alice",
		AuthType: 1,
		AuthData: []byte("x"),
	})
	if err != nil {
		t.Fatalf("EncodeRecord() error = %v", err)
	}

	// 'I' <len> alice 'P' <type> 'Q' <len> x
	want := []byte{'I', 5, 'a', 'l', 'i', 'c', 'e', 'P', 1, 'Q', 1, 'x'}
	if !bytes.Equal(buf, want) {
		t.Errorf("EncodeRecord() = %x, want %x", buf, want)
	}
}

func TestDecodeRecordTruncated(t *testing.T) {
	full, err := EncodeRecord(&CredentialRecord{
		UserName: "alice",
		AuthType: 200,
		AuthData: []byte("deadbeef"),
	})
	if err != nil {
		t.Fatalf("EncodeRecord() error = %v", err)
	}

	// Every proper prefix of a valid record must fail cleanly.
	for n := 0; n < len(full); n++ {
		if _, err := DecodeRecord(full[:n]); err != ErrMalformedRecord {
			t.Errorf("DecodeRecord(%d bytes) error = %v, want ErrMalformedRecord", n, err)
		}
	}
}

func TestDecodeRecordGarbage(t *testing.T) {
	// Length prefix far beyond the buffer.
	if _, err := DecodeRecord([]byte{'I', 0x7F, 'a'}); err != ErrMalformedRecord {
		t.Errorf("DecodeRecord(overlong) error = %v, want ErrMalformedRecord", err)
	}
}
