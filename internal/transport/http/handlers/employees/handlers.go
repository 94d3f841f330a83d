package employeehandler

import (
	"net/http"

	"hrperf/internal/domain/auth"
	"hrperf/internal/domain/employee"
	"hrperf/internal/platform/metrics"
	"hrperf/internal/transport/http/api"
	"hrperf/internal/transport/http/middleware"
	"hrperf/internal/transport/http/shared"
)

type Handler struct {
	Employees *employee.Service
}

func NewHandler(employees *employee.Service) *Handler {
	return &Handler{Employees: employees}
}

func (h *Handler) Routes() []middleware.Route {
	return []middleware.Route{
		{Method: http.MethodGet, Pattern: "/employees", Handler: h.handleListEmployees},
		{Method: http.MethodPost, Pattern: "/employees", Roles: auth.PrivilegedRoles, Handler: h.handleCreateEmployee},
	}
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	entries, err := h.Employees.Directory(r.Context(), identity)
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	var payload struct {
		EmployeeID string `json:"employeeId"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		Department string `json:"department"`
		Position   string `json:"position"`
		HireDate   string `json:"hireDate"`
		Role       string `json:"role"`
	}
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	hireDate, err := shared.ParseOptionalDate("hireDate", payload.HireDate)
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}

	emp, err := h.Employees.Create(r.Context(), identity, employee.CreateInput{
		EmployeeID: payload.EmployeeID,
		Name:       payload.Name,
		Email:      payload.Email,
		Password:   payload.Password,
		Department: payload.Department,
		Position:   payload.Position,
		HireDate:   hireDate,
		Role:       payload.Role,
	})
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}
	metrics.RecordCreated("employee")
	api.Created(w, emp, reqID)
}
