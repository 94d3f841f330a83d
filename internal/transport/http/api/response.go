package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hrperf/internal/domain/apperr"
)

type Error struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []apperr.FieldIssue `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details []apperr.FieldIssue, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// WriteError maps domain errors to status codes. Unclassified errors are logged and reported
// as a generic 500.
func WriteError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		FailWithDetails(w, http.StatusBadRequest, "validation_error", "request validation failed", apperr.Issues(err), requestID)
	case errors.Is(err, apperr.ErrUnauthorized):
		Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
	case errors.Is(err, apperr.ErrForbidden):
		Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
	case errors.Is(err, apperr.ErrNotFound):
		Fail(w, http.StatusNotFound, "not_found", "resource not found", requestID)
	case errors.Is(err, apperr.ErrConflict):
		Fail(w, http.StatusConflict, "conflict", "request conflicts with current state", requestID)
	default:
		slog.Error("request failed", "requestId", requestID, "err", err)
		Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
