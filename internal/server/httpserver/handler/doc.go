// Package handler implements the HTTP handlers for LinkMesh.
//
// The redirect path is the hot path and writes no JSON envelope; the
// admin and health endpoints use a common response envelope carrying
// the error code taxonomy.
//
// @req RQ-0302
// @design DS-0302
package handler
