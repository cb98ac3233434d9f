// Package config defines the server configuration structure.
package config

import (
	"encoding/hex"
	"errors"
	"net/url"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifySecurity(&cfg.Security)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Addr == "" {
		return errors.New("server.addr is required")
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("server.base_url must be an absolute URL")
		}
	}
	if cfg.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive")
	}
	if cfg.DrainTimeout <= 0 {
		return errors.New("server.drain_timeout must be positive")
	}
	if cfg.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}

	// Cert and key come as a pair.
	if (cfg.TLS.CertFile == "") != (cfg.TLS.KeyFile == "") {
		return errors.New("server.tls.cert_file and server.tls.key_file must both be set")
	}
	if cfg.TLS.Enabled() {
		if _, err := os.Stat(cfg.TLS.CertFile); err != nil {
			return errors.New("server.tls.cert_file: " + err.Error())
		}
		if _, err := os.Stat(cfg.TLS.KeyFile); err != nil {
			return errors.New("server.tls.key_file: " + err.Error())
		}
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	// Check if data directory exists or can be created
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.AdminToken == "" {
		return errors.New("security.admin_token is required")
	}
	if cfg.EncryptionKey != "" {
		key, err := hex.DecodeString(cfg.EncryptionKey)
		if err != nil || len(key) != 32 {
			return errors.New("security.encryption_key must be 64 hex characters")
		}
	}
	return nil
}
