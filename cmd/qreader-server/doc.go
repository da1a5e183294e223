// Package main provides the entry point for qreader-server.
//
// The server checks the X-QReader-Token header on every /api/ request,
// answers the status and token check endpoints and can host the static
// QReader client. Feed endpoints live elsewhere.
//
// Usage:
//
//	qreader-server -config /etc/qreader/server.yaml
//	qreader-server -defconfig > server.yaml
//	qreader-server -config server.yaml -auth-token
//
// Sending SIGHUP, or editing the config file, reloads the credential,
// tolerance policy, log level and TLS certificate without a restart.
package main
