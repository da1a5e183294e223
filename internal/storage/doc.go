// Package storage provides the durable key-value store used by the QReader CLI.
//
// The CLI keeps a single long-lived secret, the AuthToken, under the key
// "authToken". Two engines implement KV:
//
//   - BadgerEngine: embedded, persistent, survives restarts
//   - MemoryEngine: process-local, used by tests and --ephemeral sessions
package storage
