// Package metric provides Prometheus metrics for QReader.
//
// A Registry owns its own prometheus.Registry with Go runtime and process
// collectors attached, plus the application metrics:
//
//   - Request counters and latency histograms (HTTP middleware)
//   - Token validation results (auth service)
//   - Rate limit rejections
//
// Metrics are exposed at /metrics in Prometheus format when enabled.
package metric
