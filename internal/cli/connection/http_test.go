package connection

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yndnr/qreader-go/internal/core/domain"
	"github.com/yndnr/qreader-go/pkg/qtoken"
)

func writeEnvelope(w http.ResponseWriter, success bool, code uint, msg string, result any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"request_id": "01HTEST",
		"success":    success,
		"error":      map[string]any{"errcode": code, "errmsg": msg},
		"result":     result,
	})
}

func staticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

func TestNewHTTPClient_BaseURL(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"http://localhost:4664", "http://localhost:4664"},
		{"https://reader.example.com/", "https://reader.example.com"},
		{"localhost:4664", "http://localhost:4664"},
	}
	for _, tt := range tests {
		if got := NewHTTPClient(tt.server, nil).BaseURL(); got != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.server, got, tt.want)
		}
	}
}

func TestHTTPClient_Get_AttachesToken(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.Header.Get(qtoken.HeaderName); got != "token-1" {
			t.Errorf("%s = %q, want token-1", qtoken.HeaderName, got)
		}
		if r.URL.Path != "/api/system/info" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeEnvelope(w, true, 0, "", map[string]any{"version": "1.0"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, staticToken("token-1"))
	resp, err := client.Get(context.Background(), "api/system/info")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !resp.Success || resp.RequestID != "01HTEST" || resp.StatusCode != http.StatusOK {
		t.Errorf("Get() = %+v", resp)
	}

	var info struct {
		Version string `json:"version"`
	}
	if err := resp.Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", info.Version)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}
}

func TestHTTPClient_TokenComputedPerRequest(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(qtoken.HeaderName))
		writeEnvelope(w, true, 0, "", nil)
	}))
	defer server.Close()

	n := 0
	tokens := func(context.Context) (string, error) {
		n++
		return []string{"first", "second"}[n-1], nil
	}

	client := NewHTTPClient(server.URL, tokens)
	for i := 0; i < 2; i++ {
		if _, err := client.Get(context.Background(), "/api/checktoken"); err != nil {
			t.Fatal(err)
		}
	}
	if len(seen) != 2 || seen[0] != "first" || seen[1] != "second" {
		t.Errorf("tokens sent = %v, want [first second]", seen)
	}
}

func TestHTTPClient_TokenSourceError(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		writeEnvelope(w, true, 0, "", nil)
	}))
	defer server.Close()

	errStore := errors.New("store closed")
	client := NewHTTPClient(server.URL, func(context.Context) (string, error) { return "", errStore })

	if _, err := client.Get(context.Background(), "/api/checktoken"); !errors.Is(err, errStore) {
		t.Errorf("Get() error = %v, want %v", err, errStore)
	}
	if _, err := client.Post(context.Background(), "/api/feed", nil); !errors.Is(err, errStore) {
		t.Errorf("Post() error = %v, want %v", err, errStore)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, want 0", requests)
	}
}

func TestHTTPClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["feed"] != "x" {
			t.Errorf("body = %v", body)
		}
		writeEnvelope(w, false, domain.CodeRequestNotAllowed, "The request is not allowed.", nil)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, staticToken("t"))
	resp, err := client.Post(context.Background(), "/api/feed", map[string]string{"feed": "x"})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if !errors.Is(resp.Err(), domain.ErrRequestNotAllowed) {
		t.Errorf("Err() = %v, want errcode 101", resp.Err())
	}
}

func TestHTTPClient_AuthFailureHookOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, false, domain.CodeTokenInvalid, "Client token is invalid.", map[string]any{"leak": true})
	}))
	defer server.Close()

	hooks := 0
	client := NewHTTPClient(server.URL, staticToken("stale"), WithOnAuthFailure(func() { hooks++ }))

	resp, err := client.Get(context.Background(), "/api/checktoken")
	if !errors.Is(err, ErrAuthenticationFailure) {
		t.Fatalf("Get() error = %v, want ErrAuthenticationFailure", err)
	}
	if resp != nil {
		t.Error("rejected response should not be returned for further processing")
	}
	if hooks != 1 {
		t.Errorf("OnAuthFailure called %d times, want 1", hooks)
	}
}

func TestHTTPClient_NetworkFailure(t *testing.T) {
	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()

	client := NewHTTPClient(notFound.URL, nil)
	if _, err := client.Get(context.Background(), "/api/checktoken"); !errors.Is(err, ErrNetworkFailure) {
		t.Errorf("404 error = %v, want ErrNetworkFailure", err)
	}

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	client = NewHTTPClient(url, nil)
	if _, err := client.Get(context.Background(), "/api/"); !errors.Is(err, ErrNetworkFailure) {
		t.Errorf("transport error = %v, want ErrNetworkFailure", err)
	}
}

func TestHTTPClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))
	defer server.Close()

	_, err := NewHTTPClient(server.URL, nil).Get(context.Background(), "/api/")
	if err == nil {
		t.Fatal("Get() should fail on a non-JSON body")
	}
	if errors.Is(err, ErrNetworkFailure) || errors.Is(err, ErrAuthenticationFailure) {
		t.Errorf("error = %v, want a parse error", err)
	}
}
