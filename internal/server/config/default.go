package config

import (
	"time"

	"github.com/yndnr/qreader-go/pkg/qtoken"
)

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:4664"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultCORSOrigin      = "*"

	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 40

	DefaultDigest        = "sha1"
	DefaultKDF           = "plain"
	DefaultSlotTolerance = 1

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath = "/metrics"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				CORSOrigin:   DefaultCORSOrigin,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				RateLimit: RateLimitConfig{
					Enabled: false,
					RPS:     DefaultRateLimitRPS,
					Burst:   DefaultRateLimitBurst,
				},
			},
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Security: SecuritySection{
			Salt:           qtoken.DefaultSalt,
			Digest:         DefaultDigest,
			KDF:            DefaultKDF,
			SlotSize:       qtoken.DefaultSlotSize,
			SlotTolerance:  DefaultSlotTolerance,
			MonthTolerance: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Telemetry: TelemetrySection{
			Metrics: MetricsConfig{
				Enabled: false,
				Path:    DefaultMetricsPath,
			},
		},
	}
}

// DefaultYAML is the annotated configuration file printed by -defconfig.
const DefaultYAML = `# qreader-server configuration.
# Every key can also be set through the environment, e.g.
# QREADER_SECURITY_PASSWORD or QREADER_SERVER_HTTP_ADDR.

server:
  http:
    addr: "127.0.0.1:4664"
    # Set both to serve HTTPS.
    tls_cert_file: ""
    tls_key_file: ""
    # Directory with the browser client, served at /. Leave empty to disable.
    client_dir: ""
    cors_origin: "*"
    read_timeout: 15s
    write_timeout: 30s
    rate_limit:
      enabled: false
      rps: 20
      burst: 40
  shutdown_timeout: 10s

security:
  # Set password, or auth_token as printed by: qreader-server -auth-token
  password: ""
  auth_token: ""
  # Salt, digest, kdf and slot_size must match every client.
  salt: "34682084954d47239577b53caad5baf4"
  # sha1 or sha256
  digest: "sha1"
  # plain or argon2id
  kdf: "plain"
  # Minutes per token slot: 1-30, must divide 60.
  slot_size: 5
  # Slots accepted either side of the server's current slot.
  slot_tolerance: 1
  # Accept tokens built for the previous or next month.
  month_tolerance: true

log:
  # debug, info, warn, error
  level: "info"
  # json or text
  format: "json"

telemetry:
  metrics:
    enabled: false
    path: "/metrics"
`
