package authhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/auth"
	"hrperf/internal/domain/employee"
	"hrperf/internal/platform/metrics"
	"hrperf/internal/transport/http/api"
	"hrperf/internal/transport/http/middleware"
	"hrperf/internal/transport/http/shared"
)

type Handler struct {
	Employees *employee.Service
	Tokens    *auth.TokenService
}

func NewHandler(employees *employee.Service, tokens *auth.TokenService) *Handler {
	return &Handler{Employees: employees, Tokens: tokens}
}

func (h *Handler) Routes() []middleware.Route {
	return []middleware.Route{
		{Method: http.MethodPost, Pattern: "/auth/login", Public: true, Handler: h.handleLogin},
		{Method: http.MethodPost, Pattern: "/auth/logout", Handler: h.handleLogout},
		{Method: http.MethodGet, Pattern: "/auth/profile", Handler: h.handleProfile},
		{Method: http.MethodPost, Pattern: "/auth/mfa/setup", Handler: h.handleMFASetup},
		{Method: http.MethodPost, Pattern: "/auth/mfa/enable", Handler: h.handleMFAEnable},
		{Method: http.MethodPost, Pattern: "/auth/mfa/disable", Handler: h.handleMFADisable},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "email and password are required", []apperr.FieldIssue{
			{Field: "email", Reason: "is required"},
			{Field: "password", Reason: "is required"},
		}, reqID)
		return
	}

	emp, err := h.Employees.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, employee.ErrInvalidCredentials) {
			metrics.AuthFailure("invalid_credentials")
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
			return
		}
		api.WriteError(w, err, reqID)
		return
	}

	if err := h.Employees.CheckMFA(emp, payload.MFACode); err != nil {
		metrics.AuthFailure("mfa")
		if errors.Is(err, employee.ErrMFARequired) {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", reqID)
			return
		}
		api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", reqID)
		return
	}

	identity := employee.IdentityOf(emp)
	token, err := h.Tokens.Issue(identity)
	if err != nil {
		slog.Error("issue token failed", "employeeId", emp.EmployeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}
	metrics.LoginsTotal.Inc()
	api.Success(w, map[string]any{
		"token": token,
		"user":  identity,
	}, reqID)
}

// handleLogout only acknowledges; tokens stay valid until they expire.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())
	api.Success(w, map[string]any{"user": identity}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	enrollment, err := h.Employees.SetupMFA(r.Context(), identity)
	if err != nil {
		writeMFAError(w, err, reqID)
		return
	}
	api.Success(w, enrollment, reqID)
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, true)
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, false)
}

func (h *Handler) toggleMFA(w http.ResponseWriter, r *http.Request, enable bool) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	var payload mfaCodeRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	status := "disabled"
	var err error
	if enable {
		status = "enabled"
		err = h.Employees.EnableMFA(r.Context(), identity, payload.Code)
	} else {
		err = h.Employees.DisableMFA(r.Context(), identity, payload.Code)
	}
	if err != nil {
		writeMFAError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": status}, reqID)
}

func writeMFAError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, employee.ErrMFAUnavailable):
		api.Fail(w, http.StatusBadRequest, "mfa_unavailable", "mfa requires encryption key", reqID)
	case errors.Is(err, employee.ErrMFAAlreadyEnabled):
		api.Fail(w, http.StatusConflict, "mfa_enabled", "disable mfa before setting it up again", reqID)
	case errors.Is(err, employee.ErrMFANotConfigured):
		api.Fail(w, http.StatusBadRequest, "mfa_missing", "mfa setup required", reqID)
	case errors.Is(err, employee.ErrMFAInvalid):
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", reqID)
	default:
		api.WriteError(w, err, reqID)
	}
}
