// Package config provides server configuration for QReader.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values and the annotated default file
//   - verify.go: Validation (addresses, TLS files, credential, token parameters)
//   - sanitize.go: Log sanitization (hide password, auth token and salt)
//
// Configuration is loaded via internal/infra/confloader from a YAML file
// and QREADER_* environment variables.
package config
