package wire

import (
	"strings"
	"testing"
)

func TestGetInfoResponseJSON(t *testing.T) {
	resp := &GetInfoResponse{
		Status:       StatusOK,
		StatusString: StatusStringOK,
		Version:      "2.7.1",
		DeviceID:     "4f52-identity",
		RemoteName:   "Living Room",
		PublicKey:    "cHVibGljLWtleQ==",
		DeviceType:   "SPEAKER",
		ActiveUser:   "alice",
	}

	data, err := EncodeGetInfoResponse(resp)
	if err != nil {
		t.Fatalf("EncodeGetInfoResponse() error = %v", err)
	}

	// Field names are part of the protocol surface.
	for _, key := range []string{`"status"`, `"statusString"`, `"spotifyError"`, `"deviceID"`, `"remoteName"`, `"publicKey"`, `"activeUser"`, `"deviceType"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("encoded descriptor missing %s: %s", key, data)
		}
	}

	got, err := DecodeGetInfoResponse(data)
	if err != nil {
		t.Fatalf("DecodeGetInfoResponse() error = %v", err)
	}
	if *got != *resp {
		t.Errorf("round trip = %+v, want %+v", got, resp)
	}
	if !got.OK() {
		t.Error("OK() = false for status 101")
	}
}

func TestAddUserResponseOK(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "success", status: StatusOK, want: true},
		{name: "invalid action", status: StatusErrorInvalidAction, want: false},
		{name: "zero", status: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &AddUserResponse{Status: tt.status}
			if got := resp.OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}
