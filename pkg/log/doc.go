// Package log provides structured protocol event logging for the
// Connect service.
//
// The service emits an Event for every discovery advertisement,
// handshake request, credential capture and wake attempt. Applications
// receive events through the Logger interface; NoopLogger discards them,
// SlogAdapter forwards them to a slog.Logger, FileLogger appends them to
// a CBOR stream for later inspection, and MultiLogger fans out to
// several sinks.
package log
