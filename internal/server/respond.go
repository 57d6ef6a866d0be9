package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/adtarget-cli/internal/apperr"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

// writeText writes an already encoded JSON document.
func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

func writeErrorCode(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

// writeError maps err onto a status and error code.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("server: request failed", zap.Int("status", status), zap.Error(err))
	}
	writeErrorCode(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrNoResult):
		return http.StatusNotFound, "no_result"
	case errors.Is(err, apperr.ErrBusy):
		return http.StatusConflict, "busy"
	case apperr.IsInputInvalid(err):
		return http.StatusBadRequest, "input_invalid"
	case apperr.IsInferenceUnavailable(err):
		return http.StatusServiceUnavailable, "inference_unavailable"
	case apperr.IsExportFailure(err):
		return http.StatusInternalServerError, "export_failure"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
