// Package adaptive provides adaptive encryption for LinkMesh.
//
// This package implements a cipher abstraction that automatically
// selects the best available encryption algorithm based on hardware
// capabilities. It seals table snapshots at rest when an encryption
// key is configured.
//
// Supported Algorithms:
//
//   - AES-256-GCM: Preferred when hardware AES support is available
//   - ChaCha20-Poly1305: Fallback for systems without AES-NI
//
// Usage:
//
//	cipher, err := adaptive.New(key)
//	sealed, err := cipher.Encrypt(plaintext, aad)
//	plaintext, err := cipher.Decrypt(sealed, aad)
//
// @adr AD-0201
package adaptive
