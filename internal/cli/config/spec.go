package config

import (
	"path/filepath"
	"time"

	"github.com/yndnr/qreader-go/pkg/qtoken"
)

// CLIConfig is the configuration for qreader-cli.
type CLIConfig struct {
	// Server is the base URL of the QReader server.
	Server string `yaml:"server" json:"server"`

	// Protocol parameters. They must match the server's security section.
	Salt     string `yaml:"salt" json:"salt"`
	Digest   string `yaml:"digest" json:"digest"` // sha1, sha256
	KDF      string `yaml:"kdf" json:"kdf"`       // plain, argon2id
	SlotSize int    `yaml:"slot_size" json:"slot_size"`

	// StoreDir holds the Badger directory with the saved authToken.
	StoreDir string `yaml:"store_dir" json:"store_dir"`

	// StoreEngine is "badger" or "memory".
	StoreEngine string `yaml:"store_engine" json:"store_engine"`

	// Output is the default output format: text, json, yaml.
	Output string `yaml:"output" json:"output"`

	// TLS settings for https servers.
	CACert   string `yaml:"ca_cert" json:"ca_cert"`
	Insecure bool   `yaml:"insecure" json:"insecure"`

	// Timeout bounds every HTTP request.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:      "http://127.0.0.1:4664",
		Salt:        qtoken.DefaultSalt,
		Digest:      string(qtoken.SHA1),
		KDF:         string(qtoken.KDFPlain),
		SlotSize:    qtoken.DefaultSlotSize,
		StoreDir:    filepath.Join(DefaultDir(), "store"),
		StoreEngine: "badger",
		Output:      "text",
		Timeout:     30 * time.Second,
	}
}

// Protocol builds the token protocol described by the configuration.
func (c *CLIConfig) Protocol() (*qtoken.Protocol, error) {
	digest, err := qtoken.ParseDigest(c.Digest)
	if err != nil {
		return nil, err
	}
	kdf, err := qtoken.ParseKDF(c.KDF)
	if err != nil {
		return nil, err
	}
	return qtoken.New(
		qtoken.WithSalt(c.Salt),
		qtoken.WithSlotSize(c.SlotSize),
		qtoken.WithDigest(digest),
		qtoken.WithKDF(kdf),
	)
}
