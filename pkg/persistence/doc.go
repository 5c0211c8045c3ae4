// Package persistence provides runtime state persistence for the
// Connect service.
//
// The state is a single JSON document holding the receiver identity and
// the last captured credential. The identity is key material for the
// blob cipher's identity layer, so regenerating it invalidates every
// credential captured under it; ResetIdentity on the store clears both
// atomically.
package persistence
