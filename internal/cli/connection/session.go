package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/yndnr/qreader-go/internal/storage"
	"github.com/yndnr/qreader-go/pkg/qtoken"
)

// AuthTokenKey is the storage key holding the AuthToken.
const AuthTokenKey = "authToken"

// CheckTokenPath is the server endpoint used to validate a token.
const CheckTokenPath = "/api/checktoken"

// Session binds the durable authToken to an HTTP client.
type Session struct {
	store    storage.KV
	protocol *qtoken.Protocol
	client   *HTTPClient
}

// NewSession creates a session for server. Requests made through Client
// carry a token computed from the stored authToken at send time.
func NewSession(store storage.KV, protocol *qtoken.Protocol, server string, opts ...ClientOption) *Session {
	s := &Session{
		store:    store,
		protocol: protocol,
	}
	s.client = NewHTTPClient(server, s.APIToken, opts...)
	return s
}

// Client returns the token-attaching HTTP client.
func (s *Session) Client() *HTTPClient {
	return s.client
}

// Protocol returns the token protocol in use.
func (s *Session) Protocol() *qtoken.Protocol {
	return s.protocol
}

// Login derives the AuthToken from password, asks the server to check the
// resulting API token and stores the AuthToken once the server accepts it.
func (s *Session) Login(ctx context.Context, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	authToken := s.protocol.DeriveAuthToken(password)
	apiToken := s.protocol.ComputeAPIToken(authToken)

	resp, err := s.client.do(ctx, http.MethodGet, CheckTokenPath, nil, apiToken, false)
	if errors.Is(err, ErrAuthenticationFailure) {
		return ErrLoginRejected
	}
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: %v", ErrLoginRejected, resp.Err())
	}

	if err := s.store.Set(ctx, []byte(AuthTokenKey), []byte(authToken)); err != nil {
		return fmt.Errorf("save auth token: %w", err)
	}
	return nil
}

// Check validates the stored AuthToken against the server.
//
// It returns ErrNotLoggedIn when nothing is stored and
// ErrAuthenticationFailure when the server rejects the token.
func (s *Session) Check(ctx context.Context) error {
	authToken, err := s.AuthToken(ctx)
	if err != nil {
		return err
	}
	if authToken == "" {
		return ErrNotLoggedIn
	}

	resp, err := s.client.Get(ctx, CheckTokenPath)
	if err != nil {
		return err
	}
	return resp.Err()
}

// Logout removes the stored AuthToken.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, []byte(AuthTokenKey)); err != nil {
		return fmt.Errorf("delete auth token: %w", err)
	}
	return nil
}

// AuthToken returns the stored AuthToken, or "" when none is stored.
func (s *Session) AuthToken(ctx context.Context) (string, error) {
	v, err := s.store.Get(ctx, []byte(AuthTokenKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read auth token: %w", err)
	}
	return string(v), nil
}

// APIToken returns the API token for the current time slot, or "" when the
// user is not logged in.
func (s *Session) APIToken(ctx context.Context) (string, error) {
	authToken, err := s.AuthToken(ctx)
	if err != nil {
		return "", err
	}
	return s.protocol.ComputeAPIToken(authToken), nil
}
