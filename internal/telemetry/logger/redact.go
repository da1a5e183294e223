package logger

import (
	"log/slog"
	"strings"
)

// Key fragments that mark an attribute as secret.
var sensitiveKeyPatterns = []string{
	"password",
	"passwd",
	"secret",
	"salt",
	"token",
	"credential",
	"auth",
}

// Lengths of SHA-1, SHA-256 and Argon2id hex output.
var digestLengths = map[int]bool{40: true, 64: true}

const redactedValue = "***REDACTED***"

// redactSensitive redacts an attribute by key name, or masks it when the
// value looks like a token digest.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if IsSensitiveValue(strVal) {
			return slog.String(a.Key, maskValue(strVal))
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// maskValue keeps the first and last 3 characters.
func maskValue(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// RedactString masks value if it looks like a token digest.
func RedactString(value string) string {
	if IsSensitiveValue(value) {
		return maskValue(value)
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value is a lowercase hex string of a
// digest length, which is what AuthTokens and ApiTokens look like.
func IsSensitiveValue(value string) bool {
	if !digestLengths[len(value)] {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
