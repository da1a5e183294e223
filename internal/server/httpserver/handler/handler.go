package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/qreader-go/internal/core/domain"
	"github.com/yndnr/qreader-go/internal/core/service"
	"github.com/yndnr/qreader-go/internal/infra/buildinfo"
	"github.com/yndnr/qreader-go/internal/telemetry/logger"
)

// Handler serves the QReader API endpoints.
type Handler struct {
	authSvc *service.AuthService
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Handler.
func New(authSvc *service.AuthService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		authSvc: authSvc,
		logger:  log,
		now:     time.Now,
	}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/{$}", h.Status)
	mux.HandleFunc("GET /api/checktoken", h.Status)
	mux.HandleFunc("GET /api/system/info", h.SystemInfo)
	mux.HandleFunc("/api/", h.Default)

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)
}

// Status reports that the API is up. Served at /api/ without a token and
// at /api/checktoken behind one, which is how clients test a login.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, nil)
}

// Default rejects every /api/ request without a dedicated route.
func (h *Handler) Default(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, h.logger, domain.ErrRequestNotAllowed)
}

// SystemInfo is the result of GET /api/system/info.
type SystemInfo struct {
	Version        string    `json:"version"`
	ServerTime     time.Time `json:"server_time"`
	TimeSlot       string    `json:"time_slot"`
	SlotSize       int       `json:"slot_size"`
	SlotTolerance  int       `json:"slot_tolerance"`
	MonthTolerance bool      `json:"month_tolerance"`
	Digest         string    `json:"digest"`
	KDF            string    `json:"kdf"`
}

// SystemInfo returns the protocol parameters and server clock so a client
// can diagnose a salt or clock mismatch.
func (h *Handler) SystemInfo(w http.ResponseWriter, r *http.Request) {
	p := h.authSvc.Protocol()
	tol := h.authSvc.Tolerance()
	now := p.Now().UTC()

	h.writeResult(w, r, SystemInfo{
		Version:        buildinfo.Version,
		ServerTime:     now,
		TimeSlot:       p.CurrentTimeSlot().String(),
		SlotSize:       p.SlotSize(),
		SlotTolerance:  tol.Slots,
		MonthTolerance: tol.Months,
		Digest:         string(p.Digest()),
		KDF:            string(p.KDF()),
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, map[string]string{
		"status": "healthy",
		"time":   h.now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.authSvc == nil || h.authSvc.AuthToken() == "" {
		WriteResult(w, h.logger, http.StatusServiceUnavailable,
			NewErrorResult(logger.RequestIDFromContext(r.Context()), domain.ErrSystemError), nil)
		return
	}
	h.writeResult(w, r, map[string]string{
		"status": "ready",
		"time":   h.now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, result any) {
	WriteResult(w, h.logger, http.StatusOK, NewResult(logger.RequestIDFromContext(r.Context()), result), nil)
}
