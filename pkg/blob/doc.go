// Package blob implements the two-layer cipher protecting a credential
// in transit and at rest.
//
// # Session layer
//
// The outer layer is keyed from the Diffie-Hellman shared secret:
// baseKey = SHA1(secret)[:16], checksumKey = HMAC-SHA1(baseKey,
// "checksum"), encKey = HMAC-SHA1(baseKey, "encryption")[:16]. The wire
// form is IV(16) || ciphertext || MAC(20) with AES-128-CTR encryption and
// an HMAC-SHA1 tag over the ciphertext. Decryption verifies the tag in
// constant time before touching the ciphertext; a mismatch fails with
// ErrIntegrity and never exposes plaintext.
//
// # Identity layer
//
// The inner layer is keyed from the receiver's identity string and the
// account name: SHA1(identity) stretched with PBKDF2-HMAC-SHA1 (salt =
// username, 256 iterations, 20 bytes), hashed once more with SHA1, and
// extended to 24 bytes with big-endian uint32(20). The payload is
// AES-192-ECB with a byte-feedback XOR pass applied to the decrypted
// buffer from the end toward the start. This layer carries no MAC; its
// integrity derives transitively from the session layer, and corruption
// surfaces later as a record parse failure.
//
// # Composition
//
// DecryptCredential and EncryptCredential chain the layers together with
// the record codec in pkg/wire. The session-layer plaintext is the base64
// text of the identity-layer payload.
package blob
