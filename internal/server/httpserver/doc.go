// Package httpserver provides the HTTP/HTTPS server for qreader-server.
//
// Routes:
//
//   - GET /api/: status, no token required
//   - GET /api/checktoken: status behind the token check
//   - GET /api/system/info: protocol parameters and server clock
//   - /api/*: anything else is answered with errcode 101
//   - GET /health, GET /ready
//   - GET /metrics (configurable)
//   - /: static client files (optional)
//
// Every path below /api/ must carry a valid X-QReader-Token header.
package httpserver
