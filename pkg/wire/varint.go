package wire

import "errors"

// MaxVarint is the largest value the 1-2 byte varint form can represent.
const MaxVarint = 0x3FFF

// Codec errors.
var (
	ErrVarintRange = errors.New("value out of varint range")
	ErrShortBuffer = errors.New("unexpected end of buffer")
)

// AppendVarint appends v to dst in the protocol's varint encoding.
// v must be in [0, MaxVarint].
func AppendVarint(dst []byte, v int) ([]byte, error) {
	if v < 0 || v > MaxVarint {
		return nil, ErrVarintRange
	}
	if v < 0x80 {
		return append(dst, byte(v)), nil
	}
	return append(dst, byte(v&0x7F)|0x80, byte(v>>7)), nil
}

// AppendPrefixed appends a varint length followed by the raw bytes of b.
func AppendPrefixed(dst, b []byte) ([]byte, error) {
	dst, err := AppendVarint(dst, len(b))
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

// reader walks a byte buffer sequentially. All methods fail with
// ErrShortBuffer when a read runs past the end.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

// readByte consumes a single byte.
func (r *reader) readByte() (byte, error) {
	if r.off >= len(r.buf) {
		return 0, ErrShortBuffer
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// readVarint consumes a 1-2 byte varint.
func (r *reader) readVarint() (int, error) {
	b0, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if b0&0x80 == 0 {
		return int(b0), nil
	}
	b1, err := r.readByte()
	if err != nil {
		return 0, err
	}
	return int(b0&0x7F) | int(b1)<<7, nil
}

// readBytes consumes exactly n bytes.
func (r *reader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.buf) {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// readPrefixed consumes a varint length and that many raw bytes.
func (r *reader) readPrefixed() ([]byte, error) {
	n, err := r.readVarint()
	if err != nil {
		return nil, err
	}
	return r.readBytes(n)
}
