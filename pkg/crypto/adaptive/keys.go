// Package adaptive provides adaptive encryption with automatic algorithm selection.
package adaptive

import (
	"encoding/hex"
	"errors"
)

// KeySize is the required key size in bytes for snapshot sealing.
const KeySize = 32

// ParseKey decodes a hex-encoded 32-byte key as found in configuration.
func ParseKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.New("encryption key is not valid hex")
	}
	if len(key) != KeySize {
		return nil, errors.New("encryption key must be 32 bytes (64 hex characters)")
	}
	return key, nil
}
