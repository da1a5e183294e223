package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/yndnr/qreader-go/pkg/qtoken"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	if cfg.Telemetry.Metrics.Enabled && !strings.HasPrefix(cfg.Telemetry.Metrics.Path, "/") {
		return errors.New("telemetry.metrics.path must start with /")
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}

	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("tls file: %w", err)
		}
	}

	if cfg.HTTP.ClientDir != "" {
		info, err := os.Stat(cfg.HTTP.ClientDir)
		if err != nil {
			return fmt.Errorf("server.http.client_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("server.http.client_dir %q is not a directory", cfg.HTTP.ClientDir)
		}
	}

	if rl := cfg.HTTP.RateLimit; rl.Enabled && (rl.RPS <= 0 || rl.Burst < 1) {
		return errors.New("server.http.rate_limit needs rps > 0 and burst >= 1")
	}
	if cfg.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.Password == "" && cfg.AuthToken == "" {
		return errors.New("security.password or security.auth_token is required")
	}
	if cfg.Salt == "" {
		return errors.New("security.salt must not be empty")
	}
	if cfg.SlotTolerance < 0 {
		return errors.New("security.slot_tolerance must not be negative")
	}

	p, err := cfg.Protocol()
	if err != nil {
		return fmt.Errorf("security: %w", err)
	}

	if cfg.AuthToken != "" {
		want := p.Digest().Size()
		if p.KDF() == qtoken.KDFArgon2id {
			want = qtoken.Argon2KeyLen * 2
		}
		if _, err := hex.DecodeString(cfg.AuthToken); err != nil || len(cfg.AuthToken) != want {
			return fmt.Errorf("security.auth_token must be %d hex characters", want)
		}
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}
