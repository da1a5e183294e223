package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"
)

// Server wraps http.Server with optional TLS.
type Server struct {
	httpServer *http.Server
	certFile   string
	keyFile    string
	getCert    func(*tls.ClientHelloInfo) (*tls.Certificate, error)
}

// Option configures a Server.
type Option func(*Server)

// WithTLS serves HTTPS with the given certificate and key files.
func WithTLS(certFile, keyFile string) Option {
	return func(s *Server) {
		s.certFile = certFile
		s.keyFile = keyFile
	}
}

// WithCertificate serves HTTPS with certificates from getCert, so a
// reloaded key pair is picked up by new handshakes.
func WithCertificate(getCert func(*tls.ClientHelloInfo) (*tls.Certificate, error)) Option {
	return func(s *Server) {
		s.getCert = getCert
	}
}

// WithTimeouts sets the read and write timeouts. Zero leaves a timeout unset.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.httpServer.ReadTimeout = read
		s.httpServer.WriteTimeout = write
	}
}

// New creates a new HTTP server.
func New(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TLS reports whether the server serves HTTPS.
func (s *Server) TLS() bool {
	return s.getCert != nil || (s.certFile != "" && s.keyFile != "")
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe listens on the configured address and serves until Shutdown.
// It returns nil after a graceful shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. It returns nil after a graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	var err error
	switch {
	case s.getCert != nil:
		s.httpServer.TLSConfig = &tls.Config{
			GetCertificate: s.getCert,
			MinVersion:     tls.VersionTLS12,
		}
		err = s.httpServer.ServeTLS(ln, "", "")
	case s.TLS():
		err = s.httpServer.ServeTLS(ln, s.certFile, s.keyFile)
	default:
		err = s.httpServer.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
