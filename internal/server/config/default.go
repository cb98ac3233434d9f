// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultAddr    = "127.0.0.1:5080"
	DefaultBaseURL = "http://127.0.0.1:5080"

	DefaultDataDir = "/var/lib/linkmesh-server/data"

	DefaultRequestTimeout = 30 * time.Second
	DefaultDrainTimeout   = 15 * time.Second
	DefaultMaxBodyBytes   = 128 << 20 // 128 MiB

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr:           DefaultAddr,
			BaseURL:        DefaultBaseURL,
			RequestTimeout: DefaultRequestTimeout,
			DrainTimeout:   DefaultDrainTimeout,
			MaxBodyBytes:   DefaultMaxBodyBytes,
			TLS: TLSConfig{
				Watch: true,
			},
		},
		Storage: StorageSection{
			DataDir: DefaultDataDir,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
