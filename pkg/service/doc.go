// Package service orchestrates the Connect handshake core.
//
// A Service owns all process-wide mutable state: the persisted receiver
// identity, the last captured credential, the discovered-peer registry
// and, while a receiver-emulation session is publishing, the live
// Diffie-Hellman key pair, the bound HTTP port and the mDNS
// advertisement.
//
// Two capabilities are exposed. StartCapture impersonates a receiver:
// it advertises the service, serves the handshake endpoints and stores
// the credential a client submits. Wake drives the handshake as a client
// against a real receiver, installing the stored credential to pull the
// receiver into an active session.
//
// Exactly one key pair is live for the emulator and one per concurrent
// wake call; key pairs are never reused across sessions and never
// persisted.
package service
