// Package tlsroots provides TLS certificate management for LinkMesh.
//
// Watcher serves the listener's certificate and hot-reloads it when
// the PEM files on disk change, so certificates can rotate without a
// restart. Pool manages trusted root certificates for outbound
// clients, such as the admin CLI talking to a server with a private
// CA.
//
// @req RQ-0104
// @design DS-0104
package tlsroots
