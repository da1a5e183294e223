package qtoken

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Digest names the hash function used by every step of the protocol.
type Digest string

const (
	// SHA1 is the digest used by existing QReader clients.
	SHA1 Digest = "sha1"

	// SHA256 is the recommended digest for new deployments.
	SHA256 Digest = "sha256"
)

// ParseDigest converts a configuration value to a Digest.
// An empty name selects SHA1.
func ParseDigest(name string) (Digest, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(SHA1):
		return SHA1, nil
	case string(SHA256), "sha-256":
		return SHA256, nil
	default:
		return "", &InvalidConfigurationError{Field: "digest", Reason: fmt.Sprintf("unsupported digest %q", name)}
	}
}

// Sum hashes s and returns the lowercase hex encoding.
func (d Digest) Sum(s string) string {
	switch d {
	case SHA256:
		h := sha256.Sum256([]byte(s))
		return hex.EncodeToString(h[:])
	default:
		h := sha1.Sum([]byte(s))
		return hex.EncodeToString(h[:])
	}
}

// Size returns the length in characters of a hex digest.
func (d Digest) Size() int {
	if d == SHA256 {
		return sha256.Size * 2
	}
	return sha1.Size * 2
}
