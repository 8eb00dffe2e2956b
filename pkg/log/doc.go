// Package log provides structured protocol logging for the Nuvo serial
// channel.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, wire, session).
// It is separate from operational logging - protocol capture provides a
// complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	opts.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	opts.ProtocolLogger, _ = log.NewFileLogger("/var/log/nuvo/amp.nlog")
//
//	// Both: use MultiLogger
//	opts.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    log.NewFileLogger("/var/log/nuvo/amp.nlog"),
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: Raw line bytes (LineEvent)
//   - Wire: Classified messages and encoded commands (MessageEvent)
//   - Session: State changes (StateChangeEvent)
//
// Errors have a dedicated event type and can occur at any layer.
//
// # File Format
//
// Log files use CBOR encoding with .nlog extension. The nuvo-log CLI tool
// provides viewing, filtering, and export capabilities.
package log
