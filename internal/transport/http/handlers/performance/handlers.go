package performancehandler

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/auth"
	"hrperf/internal/domain/performance"
	"hrperf/internal/platform/metrics"
	"hrperf/internal/transport/http/api"
	"hrperf/internal/transport/http/middleware"
	"hrperf/internal/transport/http/shared"
)

type Handler struct {
	Service *performance.Service
}

func NewHandler(service *performance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) Routes() []middleware.Route {
	hr := auth.PrivilegedRoles
	return []middleware.Route{
		{Method: http.MethodGet, Pattern: "/reviews/my", Handler: h.handleMyReviews},
		{Method: http.MethodGet, Pattern: "/reviews/all", Roles: hr, Handler: h.handleAllReviews},
		{Method: http.MethodPost, Pattern: "/reviews", Roles: hr, Handler: h.handleCreateReview},
		{Method: http.MethodPut, Pattern: "/reviews/{reviewID}/status", Roles: hr, Handler: h.handleReviewStatus},
		{Method: http.MethodGet, Pattern: "/reviews/{reviewID}/pdf", Handler: h.handleReviewPDF},

		{Method: http.MethodGet, Pattern: "/goals/my", Handler: h.handleMyGoals},
		{Method: http.MethodGet, Pattern: "/goals/all", Roles: hr, Handler: h.handleAllGoals},
		{Method: http.MethodPost, Pattern: "/goals", Handler: h.handleCreateGoal},
		{Method: http.MethodPut, Pattern: "/goals/{goalID}/progress", Handler: h.handleGoalProgress},

		{Method: http.MethodGet, Pattern: "/feedback/my", Handler: h.handleMyFeedback},
		{Method: http.MethodGet, Pattern: "/feedback/all", Roles: hr, Handler: h.handleAllFeedback},
		{Method: http.MethodPost, Pattern: "/feedback", Handler: h.handleCreateFeedback},

		{Method: http.MethodGet, Pattern: "/dashboard/stats", Handler: h.handleStats},
	}
}

// caller is only called behind the gate, so the identity is always present.
func caller(r *http.Request) (auth.Identity, string) {
	identity, _ := middleware.GetIdentity(r.Context())
	return identity, middleware.GetRequestID(r.Context())
}

func respond(w http.ResponseWriter, data any, err error, reqID string) {
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}
	api.Success(w, data, reqID)
}

func (h *Handler) handleMyReviews(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	reviews, err := h.Service.ListMyReviews(r.Context(), user)
	respond(w, reviews, err, reqID)
}

func (h *Handler) handleAllReviews(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	reviews, err := h.Service.ListAllReviews(r.Context(), user)
	respond(w, reviews, err, reqID)
}

func (h *Handler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	var payload struct {
		EmployeeID        string `json:"employeeId"`
		ReviewPeriodStart string `json:"reviewPeriodStart"`
		ReviewPeriodEnd   string `json:"reviewPeriodEnd"`
		performance.Ratings
		Comments string `json:"comments"`
		Feedback string `json:"feedback"`
		Status   string `json:"status"`
	}
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	start, err := shared.ParseDate("reviewPeriodStart", payload.ReviewPeriodStart)
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}
	end, err := shared.ParseDate("reviewPeriodEnd", payload.ReviewPeriodEnd)
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}

	review, err := h.Service.CreateReview(r.Context(), user, performance.ReviewInput{
		EmployeeID:        payload.EmployeeID,
		ReviewPeriodStart: start,
		ReviewPeriodEnd:   end,
		Ratings:           payload.Ratings,
		Comments:          payload.Comments,
		Feedback:          payload.Feedback,
		Status:            payload.Status,
	})
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}
	metrics.RecordCreated("review")
	api.Created(w, review, reqID)
}

func (h *Handler) handleReviewStatus(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	var payload struct {
		Status string `json:"status"`
	}
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	review, err := h.Service.AdvanceReviewStatus(r.Context(), user, chi.URLParam(r, "reviewID"), payload.Status)
	respond(w, review, err, reqID)
}

func (h *Handler) handleReviewPDF(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	reviewID := chi.URLParam(r, "reviewID")
	doc, err := h.Service.ReviewPDF(r.Context(), user, reviewID)
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="review-`+reviewID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handler) handleMyGoals(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	goals, err := h.Service.ListMyGoals(r.Context(), user)
	respond(w, goals, err, reqID)
}

func (h *Handler) handleAllGoals(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	goals, err := h.Service.ListAllGoals(r.Context(), user)
	respond(w, goals, err, reqID)
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	var payload struct {
		EmployeeID  string  `json:"employeeId"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		TargetDate  string  `json:"targetDate"`
		Status      string  `json:"status"`
		Progress    float64 `json:"progress"`
	}
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	targetDate, err := shared.ParseOptionalDate("targetDate", payload.TargetDate)
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}

	goal, err := h.Service.CreateGoal(r.Context(), user, performance.GoalInput{
		EmployeeID:  payload.EmployeeID,
		Title:       payload.Title,
		Description: payload.Description,
		TargetDate:  targetDate,
		Status:      payload.Status,
		Progress:    progressPercent(payload.Progress),
	})
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}
	metrics.RecordCreated("goal")
	api.Created(w, goal, reqID)
}

func (h *Handler) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	var payload struct {
		Progress *float64 `json:"progress"`
		Status   string   `json:"status"`
	}
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	if payload.Progress == nil {
		api.WriteError(w, apperr.Invalid("progress", "is required"), reqID)
		return
	}
	goal, err := h.Service.UpdateGoalProgress(r.Context(), user, chi.URLParam(r, "goalID"), progressPercent(*payload.Progress), payload.Status)
	respond(w, goal, err, reqID)
}

// progressPercent bounds p before the int conversion so huge values cannot overflow.
func progressPercent(p float64) int {
	return int(math.Round(math.Max(0, math.Min(100, p))))
}

func (h *Handler) handleMyFeedback(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	feedback, err := h.Service.ListMyFeedback(r.Context(), user)
	respond(w, feedback, err, reqID)
}

func (h *Handler) handleAllFeedback(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	feedback, err := h.Service.ListAllFeedback(r.Context(), user)
	respond(w, feedback, err, reqID)
}

func (h *Handler) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	var input performance.FeedbackInput
	if !shared.DecodeJSON(w, r, &input, reqID) {
		return
	}
	feedback, err := h.Service.CreateFeedback(r.Context(), user, input)
	if err != nil {
		api.WriteError(w, err, reqID)
		return
	}
	metrics.RecordCreated("feedback")
	api.Created(w, feedback, reqID)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	user, reqID := caller(r)
	stats, err := h.Service.Stats(r.Context(), user)
	respond(w, stats, err, reqID)
}
