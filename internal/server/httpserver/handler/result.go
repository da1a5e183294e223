package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yndnr/qreader-go/internal/core/domain"
	"github.com/yndnr/qreader-go/internal/telemetry/logger"
)

// marshalFailure is written when the envelope itself cannot be encoded.
const marshalFailure = `{"success":false,"error":{"errcode":999,"errmsg":"Unexpected error."},"result":null}`

// Result is the API response envelope.
type Result struct {
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Error     domain.APIError `json:"error"`
	Result    any             `json:"result"`
}

// NewResult creates a success envelope.
func NewResult(requestID string, result any) *Result {
	return &Result{
		RequestID: requestID,
		Success:   true,
		Result:    result,
	}
}

// NewErrorResult creates a failure envelope for err.
// Errors outside the catalogue become errcode 999.
func NewErrorResult(requestID string, err error) *Result {
	apiErr := domain.AsAPIError(err)
	return &Result{
		RequestID: requestID,
		Success:   false,
		Error:     domain.APIError{ErrCode: apiErr.ErrCode, ErrMsg: apiErr.ErrMsg},
	}
}

// WriteResult encodes res with the given HTTP status.
// The internal cause of a failure is logged, never sent.
func WriteResult(w http.ResponseWriter, log *slog.Logger, status int, res *Result, cause error) {
	b, err := json.Marshal(res)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(marshalFailure))
		log.Error("cannot marshal api result", "request_id", res.RequestID, "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)

	if cause != nil {
		log.Warn("api error",
			"request_id", res.RequestID,
			"errcode", res.Error.ErrCode,
			"error", cause)
	} else {
		log.Debug("api response", "request_id", res.RequestID, "success", res.Success)
	}
}

// WriteError writes the failure envelope for err with HTTP 200.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	WriteResult(w, log, http.StatusOK, NewErrorResult(logger.RequestIDFromContext(r.Context()), err), err)
}
