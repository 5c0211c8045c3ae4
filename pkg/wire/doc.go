// Package wire implements the ZeroConf handshake wire formats.
//
// # Varints
//
// The credential record format uses a 1-2 byte variable-length integer:
// values 0-127 encode as a single byte with the high bit clear, values
// 128-16383 as two bytes (low 7 bits with the high bit set, then the
// remaining 8 bits). Values above 16383 cannot be represented; this is a
// constraint of the wire format. Variable-length fields are a varint
// length followed by that many raw bytes.
//
// # Credential records
//
// A credential record is the decrypted logical form of a blob:
// a marker byte 'I' and the length-prefixed username, a marker 'P' and
// the varint auth type, a marker 'Q' and the length-prefixed auth data.
// The decoder does not validate the marker bytes; it only walks the
// field structure.
//
// # Messages
//
// The handshake HTTP surface exchanges JSON documents. GetInfoResponse
// is the receiver descriptor returned for action=getInfo; AddUserResponse
// acknowledges action=addUser and action=resetUsers. Status 101 with
// statusString "OK" denotes success.
package wire
