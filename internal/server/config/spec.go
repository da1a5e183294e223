package config

import (
	"time"

	"github.com/yndnr/qreader-go/pkg/qtoken"
)

// ServerConfig is the root configuration for qreader-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server"`
	Security  SecuritySection  `koanf:"security"`
	Log       LogSection       `koanf:"log"`
	Telemetry TelemetrySection `koanf:"telemetry"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP            HTTPConfig    `koanf:"http"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// ClientDir is served at / when set.
	ClientDir string `koanf:"client_dir"`

	// CORSOrigin is sent as Access-Control-Allow-Origin on API responses.
	CORSOrigin string `koanf:"cors_origin"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig configures the per-IP limiter in front of /api/.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// SecuritySection holds the credential and token protocol parameters.
// Salt, digest, kdf and slot size must match every client.
type SecuritySection struct {
	// Password is the QReader password. Either it or AuthToken is required.
	Password string `koanf:"password"`

	// AuthToken is the pre-derived secret (qreader-server -auth-token prints it).
	AuthToken string `koanf:"auth_token"`

	Salt     string `koanf:"salt"`
	Digest   string `koanf:"digest"`
	KDF      string `koanf:"kdf"`
	SlotSize int    `koanf:"slot_size"`

	// SlotTolerance is how many slots either side of the current one are accepted.
	SlotTolerance int `koanf:"slot_tolerance"`

	// MonthTolerance also accepts tokens built for the adjacent month.
	MonthTolerance bool `koanf:"month_tolerance"`
}

// Protocol builds the token protocol described by this section.
func (s *SecuritySection) Protocol() (*qtoken.Protocol, error) {
	digest, err := qtoken.ParseDigest(s.Digest)
	if err != nil {
		return nil, err
	}
	kdf, err := qtoken.ParseKDF(s.KDF)
	if err != nil {
		return nil, err
	}
	return qtoken.New(
		qtoken.WithSalt(s.Salt),
		qtoken.WithSlotSize(s.SlotSize),
		qtoken.WithDigest(digest),
		qtoken.WithKDF(kdf),
	)
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetrySection configures metrics exposure.
type TelemetrySection struct {
	Metrics MetricsConfig `koanf:"metrics"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}
