// Package httpserver provides the HTTP/HTTPS server for LinkMesh.
//
// The package owns the listening socket directly rather than using
// http.Server's ListenAndServeTLS: the acceptor performs the optional
// TLS handshake itself so that handshake failures can be dropped
// silently, certificates can rotate without a listener restart, and
// outstanding connections can be tracked for bounded draining.
// Handshaken connections are handed to a stock http.Server for
// HTTP/1.1 keep-alive serving.
//
// @req RQ-0301
// @design DS-0301
package httpserver
