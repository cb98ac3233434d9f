// Package logger provides structured logging for LinkMesh.
//
// This package wraps log/slog for structured logging:
//
//   - logger.go: Logger configuration and initialization
//   - context.go: Context-aware logging with request IDs
//   - redact.go: Sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering
//   - Automatic sensitive data masking (lm*_ prefixed credentials)
//   - Context propagation for request correlation
//
// @req RQ-0403
// @design DS-0402
package logger
