// Package config provides server configuration for LinkMesh.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (required paths, TLS pairing)
//   - sanitize.go: Log sanitization (hide sensitive values)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags. The
// resulting structure is immutable after startup.
//
// @req RQ-0502
// @design DS-0502
package config
