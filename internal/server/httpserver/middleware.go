package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/qreader-go/internal/core/domain"
	"github.com/yndnr/qreader-go/internal/core/service"
	"github.com/yndnr/qreader-go/internal/server/httpserver/handler"
	"github.com/yndnr/qreader-go/internal/telemetry/logger"
	"github.com/yndnr/qreader-go/internal/telemetry/metric"
	"github.com/yndnr/qreader-go/pkg/qtoken"
)

// apiPrefix guards the token check. The bare prefix itself stays open.
const apiPrefix = "/api/"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// requiresToken reports whether path sits behind the token check.
func requiresToken(path string) bool {
	return strings.HasPrefix(path, apiPrefix) && len(path) > len(apiPrefix)
}

// RequestID assigns a ULID to each request unless the caller sent X-Request-ID.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = ulid.Make().String()
			}

			w.Header().Set("X-Request-ID", requestID)
			ctx := logger.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recover turns a panic into errcode 999 with HTTP 500.
func Recover(log *slog.Logger, metrics *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					if metrics != nil {
						metrics.IncPanics()
					}
					// Recover runs outside RequestID, so read the id back from the response.
					requestID := w.Header().Get("X-Request-ID")
					log.Error("panic recovered",
						"request_id", requestID,
						"error", err,
						"path", r.URL.Path,
					)
					handler.WriteResult(w, log, http.StatusInternalServerError,
						handler.NewErrorResult(requestID, domain.ErrUnexpectedError),
						fmt.Errorf("panic: %v", err))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog logs one line per request and records request metrics.
func AccessLog(log *slog.Logger, metrics *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			elapsed := time.Since(start)
			if metrics != nil {
				route := routeLabel(r.URL.Path)
				metrics.RecordRequest(r.Method, route, strconv.Itoa(wrapped.statusCode))
				metrics.ObserveRequestDuration(r.Method, route, elapsed.Seconds())
			}

			log.Info("access",
				"request_id", logger.RequestIDFromContext(r.Context()),
				"status", wrapped.statusCode,
				"ip", getClientIP(r),
				"host", r.Host,
				"method", r.Method,
				"path", r.URL.Path,
				"user_agent", r.UserAgent(),
				"referer", r.Referer(),
				"duration_ms", float64(elapsed.Microseconds())/1000,
			)
		})
	}
}

// CORS sets Access-Control-Allow-Origin on every response and answers
// preflight requests so browsers may send X-QReader-Token.
// An empty origin disables the middleware.
func CORS(origin string) Middleware {
	return func(next http.Handler) http.Handler {
		if origin == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, "+qtoken.HeaderName)
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit throttles /api/ requests per client IP.
// Rejected requests get HTTP 429 with errcode 101.
func RateLimit(limiters *LimiterRegistry, log *slog.Logger, metrics *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		if limiters == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, apiPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			if !limiters.Get(getClientIP(r)).Allow() {
				if metrics != nil {
					metrics.IncRateLimited()
				}
				w.Header().Set("Retry-After", "1")
				requestID := logger.RequestIDFromContext(r.Context())
				handler.WriteResult(w, log, http.StatusTooManyRequests,
					handler.NewErrorResult(requestID, domain.ErrRequestNotAllowed),
					fmt.Errorf("rate limited: %s", getClientIP(r)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// TokenAuth checks X-QReader-Token on every path below /api/.
// A missing or stale token is answered with errcode 100 and HTTP 200.
func TokenAuth(authSvc *service.AuthService, log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresToken(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if err := authSvc.Validate(r.Context(), r.Header.Get(qtoken.HeaderName)); err != nil {
				handler.WriteError(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LimiterRegistry hands out one token bucket per client key.
type LimiterRegistry struct {
	mu       sync.RWMutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiterRegistry creates a registry allowing rps requests per second
// with the given burst for each key.
func NewLimiterRegistry(rps float64, burst int) *LimiterRegistry {
	if burst < 1 {
		burst = 1
	}
	return &LimiterRegistry{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Get retrieves the limiter for key, creating it on first use.
func (r *LimiterRegistry) Get(key string) *rate.Limiter {
	now := r.now()

	r.mu.RLock()
	entry, exists := r.limiters[key]
	r.mu.RUnlock()

	if exists {
		r.mu.Lock()
		entry.lastSeen = now
		r.mu.Unlock()
		return entry.limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if entry, exists := r.limiters[key]; exists {
		entry.lastSeen = now
		return entry.limiter
	}

	entry = &limiterEntry{limiter: rate.NewLimiter(r.limit, r.burst), lastSeen: now}
	r.limiters[key] = entry
	return entry.limiter
}

// Sweep drops limiters idle for longer than maxIdle and returns how many were removed.
func (r *LimiterRegistry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, entry := range r.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(r.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (r *LimiterRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.limiters)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *LimiterRegistry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep(maxIdle)
		case <-ctx.Done():
			return
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.statusCode = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// routeLabel collapses request paths into a bounded set of metric labels.
func routeLabel(path string) string {
	switch {
	case path == apiPrefix, path == "/api/checktoken", path == "/api/system/info":
		return path
	case strings.HasPrefix(path, apiPrefix):
		return "/api/*"
	case path == "/health", path == "/ready", path == "/metrics":
		return path
	default:
		return "static"
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// SplitHostPort handles IPv6 addresses like [::1]:8080
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
