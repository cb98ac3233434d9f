// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for linkmesh-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Storage  StorageSection  `koanf:"storage"`
	Security SecuritySection `koanf:"security"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures the listener and request handling.
type ServerSection struct {
	// Addr is the TCP listen address (e.g., "0.0.0.0:8443").
	Addr string `koanf:"addr"`

	// BaseURL is the public base URL used when composing redirect
	// links for administrators (e.g., "https://links.example.com").
	BaseURL string `koanf:"base_url"`

	TLS TLSConfig `koanf:"tls"`

	// RequestTimeout bounds a single request/response exchange.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// DrainTimeout bounds waiting for in-flight connections during
	// shutdown. Exceeding it is logged as a warning, not an error.
	DrainTimeout time.Duration `koanf:"drain_timeout"`

	// MaxBodyBytes caps admin upload payload size.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// TLSConfig configures TLS termination. When CertFile and KeyFile are
// empty the server listens in plaintext.
type TLSConfig struct {
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`

	// Watch enables hot certificate rotation via filesystem watch.
	Watch bool `koanf:"watch"`
}

// Enabled reports whether TLS termination is configured.
func (c *TLSConfig) Enabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// StorageSection configures snapshot storage.
type StorageSection struct {
	// DataDir holds the timestamped table snapshots.
	DataDir string `koanf:"data_dir"`
}

// SecuritySection configures security settings.
type SecuritySection struct {
	// AdminToken is the bearer credential required on /admin routes.
	AdminToken string `koanf:"admin_token"`

	// EncryptionKey optionally seals snapshots at rest
	// (64 hex characters). Empty disables sealing.
	EncryptionKey string `koanf:"encryption_key"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
