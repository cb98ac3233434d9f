// Package service provides domain services for LinkMesh.
//
// Router is the routing table manager: it owns the authoritative
// in-memory state (code assignments and the live routing table),
// enforces the read/write discipline, and orchestrates persistence.
//
// Services define interfaces for their storage dependencies, allowing
// for dependency injection and testability.
//
// @req RQ-0103
// @design DS-0103
package service
