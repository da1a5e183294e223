package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/qreader-go/internal/core/service"
	"github.com/yndnr/qreader-go/internal/server/httpserver/handler"
	"github.com/yndnr/qreader-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// AuthService validates X-QReader-Token. Required.
	AuthService *service.AuthService

	// Logger for access and error logging.
	Logger *slog.Logger

	// Metrics records request metrics. Nil disables them.
	Metrics *metric.Registry

	// MetricsPath exposes Metrics when non-empty, e.g. "/metrics".
	MetricsPath string

	// ClientDir is served as static files at / when non-empty.
	ClientDir string

	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS.
	CORSOrigin string

	// Limiters enables per-IP rate limiting of /api/ when non-nil.
	Limiters *LimiterRegistry
}

// NewRouter creates the HTTP handler with all routes and middleware.
//
// Order: Recover -> RequestID -> AccessLog -> CORS -> RateLimit -> TokenAuth -> mux
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()
	handler.New(cfg.AuthService, log).Register(mux)

	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		mux.Handle("GET "+cfg.MetricsPath, cfg.Metrics.Handler())
	}

	if cfg.ClientDir != "" {
		// FileServer serves index.html for directory requests.
		mux.Handle("/", http.FileServer(http.Dir(cfg.ClientDir)))
	}

	return Chain(mux,
		Recover(log, cfg.Metrics),
		RequestID(),
		AccessLog(log, cfg.Metrics),
		CORS(cfg.CORSOrigin),
		RateLimit(cfg.Limiters, log, cfg.Metrics),
		TokenAuth(cfg.AuthService, log),
	)
}
