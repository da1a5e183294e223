package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/yndnr/qreader-go/internal/core/domain"
	"github.com/yndnr/qreader-go/pkg/qtoken"
)

// ErrNoCredential is returned when neither a password nor an auth token is configured.
var ErrNoCredential = errors.New("service: no credential configured")

// Credential identifies the single QReader user.
//
// Exactly one field should be set. AuthToken lets the server run without
// the raw password on disk.
type Credential struct {
	Password  string
	AuthToken string
}

// ValidationObserver receives the outcome of every token check.
// metric.Registry implements it.
type ValidationObserver interface {
	ObserveValidation(accepted bool)
}

// AuthServiceConfig holds configuration for AuthService.
type AuthServiceConfig struct {
	// Protocol carries salt, slot size, digest and kdf (default: qtoken.Default()).
	Protocol *qtoken.Protocol

	// SlotTolerance is how many slots either side of the current one are accepted (default: 1).
	SlotTolerance int

	// MonthTolerance also accepts the adjacent calendar months (default: true).
	MonthTolerance bool

	// Observer is optional.
	Observer ValidationObserver
}

// DefaultAuthServiceConfig returns default configuration.
func DefaultAuthServiceConfig() *AuthServiceConfig {
	return &AuthServiceConfig{
		Protocol:       qtoken.Default(),
		SlotTolerance:  1,
		MonthTolerance: true,
	}
}

// authState is swapped as a unit so a reload never mixes old and new values.
type authState struct {
	protocol  *qtoken.Protocol
	authToken string
	tolerance qtoken.Tolerance
}

// AuthService validates API tokens against the configured credential.
type AuthService struct {
	state    atomic.Pointer[authState]
	observer ValidationObserver
}

// NewAuthService creates a new AuthService.
func NewAuthService(cred Credential, config *AuthServiceConfig) (*AuthService, error) {
	if config == nil {
		config = DefaultAuthServiceConfig()
	}

	s := &AuthService{observer: config.Observer}
	if err := s.SetCredential(cred, config); err != nil {
		return nil, err
	}
	return s, nil
}

// SetCredential replaces the credential and tolerance policy atomically.
// Requests in flight finish against the state they started with.
func (s *AuthService) SetCredential(cred Credential, config *AuthServiceConfig) error {
	if config == nil {
		config = DefaultAuthServiceConfig()
	}
	p := config.Protocol
	if p == nil {
		p = qtoken.Default()
	}
	if config.SlotTolerance < 0 {
		return &qtoken.InvalidConfigurationError{
			Field:  "slot tolerance",
			Value:  config.SlotTolerance,
			Reason: "must not be negative",
		}
	}

	authToken := cred.AuthToken
	if authToken == "" {
		if cred.Password == "" {
			return ErrNoCredential
		}
		authToken = p.DeriveAuthToken(cred.Password)
	}

	s.state.Store(&authState{
		protocol:  p,
		authToken: authToken,
		tolerance: qtoken.Tolerance{Slots: config.SlotTolerance, Months: config.MonthTolerance},
	})
	return nil
}

// Validate checks an API token taken from the request header.
// It returns domain.ErrTokenInvalid when the token is empty or outside the window.
func (s *AuthService) Validate(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return domain.ErrUnexpectedError.WithCause(err)
	}

	st := s.state.Load()
	ok := token != "" && st.protocol.Verify(token, st.authToken, st.protocol.Now(), st.tolerance)
	if s.observer != nil {
		s.observer.ObserveValidation(ok)
	}
	if !ok {
		if token == "" {
			return domain.ErrTokenInvalid.WithCause(errors.New("missing token"))
		}
		return domain.ErrTokenInvalid.WithCause(errors.New("invalid token"))
	}
	return nil
}

// CurrentToken returns the API token a client would send right now.
func (s *AuthService) CurrentToken() string {
	st := s.state.Load()
	return st.protocol.ComputeAPIToken(st.authToken)
}

// AuthToken returns the derived AuthToken, for printing with -current-token.
func (s *AuthService) AuthToken() string {
	return s.state.Load().authToken
}

// Protocol returns the protocol parameters in use.
func (s *AuthService) Protocol() *qtoken.Protocol {
	return s.state.Load().protocol
}

// Tolerance returns the accepted window.
func (s *AuthService) Tolerance() qtoken.Tolerance {
	return s.state.Load().tolerance
}
