// Package dh implements the ephemeral Diffie-Hellman key agreement used
// by the ZeroConf handshake.
//
// The protocol fixes the group: the 768-bit MODP prime (96 bytes) with
// generator 2. Real receivers validate peer public keys against exactly
// this group, so the group is deliberately not configurable.
//
// A key pair lives for a single handshake session. Public keys travel
// base64-encoded in the publicKey descriptor field and the clientKey
// form field.
package dh
