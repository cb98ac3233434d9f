// Package token provides code generation and hashing utilities.
package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hash computes the SHA-256 hash of a credential.
//
// The returned hash is hex encoded.
func Hash(credential string) string {
	h := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(h[:])
}

// Verify verifies a credential against an expected value.
//
// Both sides are hashed first so the comparison is constant time and
// independent of the credential length.
func Verify(credential, expected string) bool {
	a := sha256.Sum256([]byte(credential))
	b := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
