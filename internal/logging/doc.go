// Package logging provides structured logging for motectl.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tool. Logging is silent by default so CLI
// output stays clean; set MOTECTL_LOG_LEVEL to enable it.
//
// # Log Levels
//
//   - Debug: Wire message content, parser diagnostics, reconnect scheduling
//   - Info: Normal operations (connections, state changes, pairing)
//   - Warn: Non-fatal issues (skipped wire lines, retryable closes)
//   - Error: Fatal issues (fatal closes, retry exhaustion)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Bridge paired",
//	    zap.String("server_id", serverID),
//	)
//
// # Specialized Logging
//
// Connection lifecycle events and wire messages have dedicated helpers:
//
//	logging.LogConnection(endpoint, "socket_open")
//	logging.LogWireMessage(endpoint, "received", line)
//
// LogWireMessage only includes message content at debug level, because
// config messages carry WiFi credentials.
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
