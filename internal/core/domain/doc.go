// Package domain defines the core domain models for LinkMesh.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - Route: destination entry uploaded by the administrator
//   - ID / Code: participant identity and its public redirect code
//   - Errors: domain-specific error definitions
//
// @req RQ-0101
// @design DS-0101
package domain
