// Package token provides code generation and validation utilities.
//
// This package implements cryptographically secure generation of the
// public redirect codes and of opaque request identifiers.
//
// Code Format:
//
//   - Body: fixed-length alphanumeric [A-Za-z0-9]
//   - Length: a deployment constant (16 by default)
//
// Security:
//
//   - Uses crypto/rand for CSPRNG
//   - Rejection sampling keeps the alphabet distribution uniform
//   - Admin credentials are compared in constant time via their hashes
//
// @design DS-0101
package token
