package wire

import (
	"bytes"
	"testing"
)

func TestVarintEncoding(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  []byte
	}{
		{name: "zero", value: 0, want: []byte{0x00}},
		{name: "one byte max", value: 127, want: []byte{0x7F}},
		{name: "two byte min", value: 128, want: []byte{0x80, 0x01}},
		{name: "130", value: 130, want: []byte{0x82, 0x01}},
		{name: "two byte max", value: 16383, want: []byte{0xFF, 0x7F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AppendVarint(nil, tt.value)
			if err != nil {
				t.Fatalf("AppendVarint(%d) error = %v", tt.value, err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("AppendVarint(%d) = %x, want %x", tt.value, got, tt.want)
			}
		})
	}
}

func TestVarintRange(t *testing.T) {
	for _, v := range []int{-1, MaxVarint + 1, 1 << 20} {
		if _, err := AppendVarint(nil, v); err != ErrVarintRange {
			t.Errorf("AppendVarint(%d) error = %v, want ErrVarintRange", v, err)
		}
	}
}

func TestVarintRoundTrip(t *testing.T) {
	for v := 0; v <= MaxVarint; v++ {
		buf, err := AppendVarint(nil, v)
		if err != nil {
			t.Fatalf("AppendVarint(%d) error = %v", v, err)
		}

		r := newReader(buf)
		got, err := r.readVarint()
		if err != nil {
			t.Fatalf("readVarint(%d) error = %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d = %d", v, got)
		}
		if r.off != len(buf) {
			t.Fatalf("round trip %d left %d unread bytes", v, len(buf)-r.off)
		}
	}
}

func TestVarintTruncated(t *testing.T) {
	r := newReader([]byte{0x82})
	if _, err := r.readVarint(); err != ErrShortBuffer {
		t.Errorf("readVarint(truncated) error = %v, want ErrShortBuffer", err)
	}

	r = newReader(nil)
	if _, err := r.readVarint(); err != ErrShortBuffer {
		t.Errorf("readVarint(empty) error = %v, want ErrShortBuffer", err)
	}
}

func TestPrefixedRoundTrip(t *testing.T) {
	payload := []byte("credential-data")

	buf, err := AppendPrefixed(nil, payload)
	if err != nil {
		t.Fatalf("AppendPrefixed() error = %v", err)
	}

	r := newReader(buf)
	got, err := r.readPrefixed()
	if err != nil {
		t.Fatalf("readPrefixed() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("readPrefixed() = %q, want %q", got, payload)
	}
}

func TestPrefixedTruncated(t *testing.T) {
	// Length says 10 bytes but only 3 follow.
	buf, _ := AppendVarint(nil, 10)
	buf = append(buf, 1, 2, 3)

	r := newReader(buf)
	if _, err := r.readPrefixed(); err != ErrShortBuffer {
		t.Errorf("readPrefixed(truncated) error = %v, want ErrShortBuffer", err)
	}
}
