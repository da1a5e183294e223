package connection

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/qreader-go/internal/core/domain"
	"github.com/yndnr/qreader-go/internal/infra/buildinfo"
	"github.com/yndnr/qreader-go/pkg/qtoken"
)

// maxResponseSize bounds the envelope read from the server.
const maxResponseSize = 4 << 20

// TokenSource returns the API token for the next request, or "" when the
// user is not logged in. An error aborts the request.
type TokenSource func(ctx context.Context) (string, error)

// Response is the decoded result envelope.
type Response struct {
	RequestID  string          `json:"request_id"`
	Success    bool            `json:"success"`
	Error      domain.APIError `json:"error"`
	Result     json.RawMessage `json:"result"`
	StatusCode int             `json:"-"`
}

// Err returns the envelope error, or nil when the call succeeded.
func (r *Response) Err() error {
	if r.Success {
		return nil
	}
	return domain.NewAPIError(r.Error.ErrCode, r.Error.ErrMsg)
}

// Decode unmarshals the result payload into target.
func (r *Response) Decode(target any) error {
	if len(r.Result) == 0 || string(r.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Result, target); err != nil {
		return fmt.Errorf("parse result: %w", err)
	}
	return nil
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTLSConfig sets the TLS configuration for https servers.
func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(c *HTTPClient) {
		if cfg == nil {
			return
		}
		c.client.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: cfg,
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithOnAuthFailure sets the hook run when the server rejects the token.
func WithOnAuthFailure(fn func()) ClientOption {
	return func(c *HTTPClient) {
		c.onAuthFailure = fn
	}
}

// HTTPClient provides HTTP communication with the server.
type HTTPClient struct {
	baseURL       string
	client        *http.Client
	tokens        TokenSource
	onAuthFailure func()
}

// NewHTTPClient creates a new HTTP client.
func NewHTTPClient(server string, tokens TokenSource, opts ...ClientOption) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &HTTPClient{
		baseURL: baseURL,
		tokens:  tokens,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*Response, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, path, nil, token, true)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, bodyReader, token, true)
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	token, err := c.tokens(ctx)
	if err != nil {
		return "", fmt.Errorf("compute api token: %w", err)
	}
	return token, nil
}

// do sends one request. With hook set, errcode 100 runs OnAuthFailure.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, token string, hook bool) (*Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if token != "" {
		req.Header.Set(qtoken.HeaderName, token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "qreader-cli/"+buildinfo.Version)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s returned 404", ErrNetworkFailure, method, path)
	}

	var out Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	out.StatusCode = resp.StatusCode

	if !out.Success && out.Error.ErrCode == domain.CodeTokenInvalid {
		if hook && c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return nil, fmt.Errorf("%w: %s", ErrAuthenticationFailure, out.Error.ErrMsg)
	}
	return &out, nil
}
