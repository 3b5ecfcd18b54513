// Package log implements structured protocol event logging for the ranging
// engine.
//
// Operational logging uses log/slog throughout the repository; this package
// captures the control-link and session traffic itself as typed events for
// diagnostics and replay: frames, decoded control messages, session state
// transitions, ranging samples and errors. Events are CBOR-encodable with
// integer keys so capture files stay compact.
//
// Applications pass a Logger into the engine. NoopLogger disables capture,
// SlogAdapter mirrors events into an slog.Logger, FileLogger appends a CBOR
// event stream to disk, and MultiLogger fans out to several sinks.
package log
