// Package tlsroots loads TLS material for qreader-server and qreader-cli.
//
//   - roots.go: trusted CA pool for the CLI (system roots plus --ca-cert)
//   - reloader.go: server certificate that can be swapped without a restart
package tlsroots
