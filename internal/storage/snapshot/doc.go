// Package snapshot provides durable, versioned table snapshots for LinkMesh.
//
// Every successful write produces an independent, crash-consistent
// version on local storage:
//
//   - Tables are serialized to JSON (optionally sealed with an
//     adaptive cipher) into a temporary file, fully flushed, then
//     atomically renamed into place.
//   - Final names are "<RFC 3339 timestamp>.<kind extension>", so
//     "latest" is always derived by a directory scan rather than a
//     separately tracked pointer that could drift from reality.
//
// No automatic pruning is performed; history accumulates on disk and
// retention is an operator concern.
//
// @req RQ-0102
// @design DS-0102
package snapshot
