// Package metric provides Prometheus metrics for LinkMesh.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry and HTTP handler
//   - collector.go: Custom collector for routing table statistics
//
// Metrics include:
//
//   - Request latency histograms
//   - Redirect and admin operation counters
//   - Connection and TLS handshake statistics
//   - Snapshot write counters
//
// Metrics are exposed at /metrics in Prometheus format.
//
// @req RQ-0403
// @design DS-0402
package metric
