// Package logger provides structured logging for QReader.
//
// It wraps log/slog:
//
//   - logger.go: JSON/text handlers and a level shared for reloads
//   - context.go: request IDs carried on the request context
//   - redact.go: Masking of passwords, salts and tokens
//
// Attributes whose key names a secret (password, salt, token, auth...)
// are replaced with ***REDACTED***. Bare hex digests of AuthToken or
// ApiToken length are partially masked whatever their key.
package logger
