// Package server provides the optional diagnostics HTTP server.
//
// Endpoints:
//   - GET /health: lifecycle state of every bus service (503 when any is unbound)
//   - GET /providers: cached providers of every dispatch family
//   - GET /providers/:family: cached providers of one family
//   - GET /metrics: Prometheus exposition
//
// The server is read-only and sits behind per-IP rate limiting. CORS is
// enabled only when origins are configured.
package server
