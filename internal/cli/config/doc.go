// Package config provides the qreader-cli configuration.
//
// The configuration lives in ~/.qreader/cli.yaml and carries the server
// address, the protocol parameters shared with the server, the location of
// the durable token store and output preferences. Global flags and
// QREADER_* environment variables override it.
package config
