// Package main provides the entry point for linkmesh-server.
//
// The server is the LinkMesh redirect service:
//
//   - HTTP/HTTPS redirect endpoint with live certificate rotation
//   - Authenticated admin API for routing table uploads
//   - Crash-safe snapshot persistence of the table state
//
// Usage:
//
//	linkmesh-server [flags]
//	linkmesh-server --config /path/to/config.yaml
//
// The server loads configuration, restores the routing table from the
// latest snapshots, and starts the listener.
//
// @design DS-0501
package main
