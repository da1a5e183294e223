package config

import "strings"

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	sec := &sanitized.Security
	if sec.Password != "" {
		sec.Password = "****"
	}
	if sec.AuthToken != "" {
		sec.AuthToken = maskSecret(sec.AuthToken)
	}
	if sec.Salt != "" {
		sec.Salt = maskSecret(sec.Salt)
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
