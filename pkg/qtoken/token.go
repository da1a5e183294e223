package qtoken

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultSalt is the salt shipped with QReader. Client and server must agree on it.
	DefaultSalt = "34682084954d47239577b53caad5baf4"

	// HeaderName is the request header carrying the API token.
	HeaderName = "X-QReader-Token"
)

// KDF names the function turning a password into an AuthToken.
type KDF string

const (
	// KDFPlain is a single digest over password + salt.
	KDFPlain KDF = "plain"

	// KDFArgon2id stretches the password with Argon2id.
	KDFArgon2id KDF = "argon2id"
)

// ParseKDF converts a configuration value to a KDF.
// An empty name selects KDFPlain.
func ParseKDF(name string) (KDF, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(KDFPlain):
		return KDFPlain, nil
	case string(KDFArgon2id):
		return KDFArgon2id, nil
	default:
		return "", &InvalidConfigurationError{Field: "kdf", Reason: fmt.Sprintf("unsupported kdf %q", name)}
	}
}

// Protocol holds the parameters shared by client and server.
// A Protocol is immutable and safe for concurrent use.
type Protocol struct {
	salt     string
	slotSize int
	digest   Digest
	kdf      KDF
	now      func() time.Time
}

// Option configures a Protocol.
type Option func(*Protocol)

// WithSalt sets the shared salt.
func WithSalt(salt string) Option {
	return func(p *Protocol) {
		p.salt = salt
	}
}

// WithSlotSize sets the time slot width in minutes.
func WithSlotSize(minutes int) Option {
	return func(p *Protocol) {
		p.slotSize = minutes
	}
}

// WithDigest sets the hash function.
func WithDigest(d Digest) Option {
	return func(p *Protocol) {
		p.digest = d
	}
}

// WithKDF sets the password derivation function.
func WithKDF(k KDF) Option {
	return func(p *Protocol) {
		p.kdf = k
	}
}

// WithClock sets the time source. Used by tests to pin the clock.
func WithClock(now func() time.Time) Option {
	return func(p *Protocol) {
		p.now = now
	}
}

// New creates a Protocol. Unset parameters take the QReader defaults.
func New(opts ...Option) (*Protocol, error) {
	p := &Protocol{
		salt:     DefaultSalt,
		slotSize: DefaultSlotSize,
		digest:   SHA1,
		kdf:      KDFPlain,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := ValidateSlotSize(p.slotSize); err != nil {
		return nil, err
	}
	if p.digest != SHA1 && p.digest != SHA256 {
		return nil, &InvalidConfigurationError{Field: "digest", Reason: fmt.Sprintf("unsupported digest %q", p.digest)}
	}
	if p.kdf != KDFPlain && p.kdf != KDFArgon2id {
		return nil, &InvalidConfigurationError{Field: "kdf", Reason: fmt.Sprintf("unsupported kdf %q", p.kdf)}
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

var defaultProtocol, _ = New()

// Default returns the protocol with QReader's default parameters.
func Default() *Protocol {
	return defaultProtocol
}

// Salt returns the shared salt.
func (p *Protocol) Salt() string { return p.salt }

// SlotSize returns the slot width in minutes.
func (p *Protocol) SlotSize() int { return p.slotSize }

// Digest returns the hash function.
func (p *Protocol) Digest() Digest { return p.digest }

// KDF returns the password derivation function.
func (p *Protocol) KDF() KDF { return p.kdf }

// Now returns the current time from the protocol's clock.
func (p *Protocol) Now() time.Time { return p.now() }

// DeriveAuthToken derives the persistent AuthToken from a password.
//
// The result depends only on the password and the protocol parameters.
// An empty password is accepted here; login flows must reject it.
func (p *Protocol) DeriveAuthToken(password string) string {
	if p.kdf == KDFArgon2id {
		return deriveArgon2id(password, p.salt)
	}
	return p.digest.Sum(password + p.salt)
}

// ComputeAPIToken derives the request token for the current time.
// It returns "" when authToken is empty, meaning "not logged in".
func (p *Protocol) ComputeAPIToken(authToken string) string {
	return p.ComputeAPITokenAt(authToken, p.now())
}

// ComputeAPITokenAt derives the request token for instant t.
func (p *Protocol) ComputeAPITokenAt(authToken string, t time.Time) string {
	if authToken == "" {
		return ""
	}
	return p.apiToken(authToken, YearMonth(t), TimeSlot{at: t.UTC(), size: p.slotSize}.String())
}

// CurrentTimeSlot returns the slot for the protocol's clock and slot size.
func (p *Protocol) CurrentTimeSlot() TimeSlot {
	return TimeSlot{at: p.now().UTC(), size: p.slotSize}
}

func (p *Protocol) apiToken(authToken, yearMonth, slot string) string {
	inner := p.digest.Sum(yearMonth + authToken)
	return p.digest.Sum(inner + slot + p.salt)
}

// DeriveAuthToken derives an AuthToken with the default protocol.
func DeriveAuthToken(password string) string {
	return defaultProtocol.DeriveAuthToken(password)
}

// ComputeAPIToken derives an API token with the default protocol.
func ComputeAPIToken(authToken string) string {
	return defaultProtocol.ComputeAPIToken(authToken)
}
