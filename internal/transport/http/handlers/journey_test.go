package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"hrperf/internal/app/server"
	"hrperf/internal/domain/auth"
	"hrperf/internal/platform/config"
)

const testSecret = "journey-test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
}

type client struct {
	t       *testing.T
	http    *http.Client
	baseURL string
}

func startApp(t *testing.T, overrides ...func(*config.Config)) *client {
	t.Helper()
	cfg := config.Config{
		Addr:                ":0",
		Environment:         "test",
		JWTSecret:           testSecret,
		TokenTTL:            time.Hour,
		AuthRecheckIdentity: true,
		StoreDriver:         config.DriverMemory,
		SeedDemoData:        true,
		FrontendDir:         t.TempDir(),
		MaxBodyBytes:        1 << 20,
		RateLimitPerMinute:  10000,
		RateLimitStorage:    config.RateLimitStorageMemory,
		MetricsEnabled:      true,
	}
	for _, override := range overrides {
		override(&cfg)
	}
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	ts := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		ts.Close()
		app.Close()
	})
	return &client{t: t, http: ts.Client(), baseURL: ts.URL}
}

func (c *client) do(method, path, token string, body any) (int, envelope, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		c.t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env, raw
}

func (c *client) expect(status int, method, path, token string, body any, out any) envelope {
	c.t.Helper()
	got, env, raw := c.do(method, path, token, body)
	if got != status {
		c.t.Fatalf("%s %s: expected %d, got %d: %s", method, path, status, got, raw)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			c.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
	return env
}

func (c *client) login(email, password string) (string, auth.Identity) {
	c.t.Helper()
	var data struct {
		Token string        `json:"token"`
		User  auth.Identity `json:"user"`
	}
	c.expect(http.StatusOK, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password}, &data)
	if data.Token == "" {
		c.t.Fatal("expected token")
	}
	return data.Token, data.User
}

func TestLoginClaimsMatchStoredIdentity(t *testing.T) {
	c := startApp(t)
	token, user := c.login("john.doe@company.com", "password123")

	want := auth.Identity{
		EmployeeID: "EMP001",
		Name:       "John Doe",
		Email:      "john.doe@company.com",
		Role:       auth.RoleEmployee,
		Department: "Engineering",
		Position:   "Software Developer",
	}
	if user != want {
		t.Fatalf("login user mismatch: %+v", user)
	}
	claims, err := auth.NewTokenService(testSecret, time.Hour).Verify(token)
	if err != nil || claims != want {
		t.Fatalf("token claims mismatch: %+v (%v)", claims, err)
	}

	var profile struct {
		User auth.Identity `json:"user"`
	}
	c.expect(http.StatusOK, http.MethodGet, "/api/auth/profile", token, nil, &profile)
	if profile.User != want {
		t.Fatalf("profile mismatch: %+v", profile.User)
	}
	c.expect(http.StatusOK, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

func TestLoginFailuresAreIdentical(t *testing.T) {
	c := startApp(t)
	_, unknown, _ := c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@company.com", "password": "password123"})
	status, wrong, _ := c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "john.doe@company.com", "password": "nope"})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if unknown.Error == nil || wrong.Error == nil || unknown.Error.Code != wrong.Error.Code || wrong.Error.Code != "invalid_credentials" {
		t.Fatalf("expected identical invalid_credentials errors, got %+v and %+v", unknown.Error, wrong.Error)
	}
	c.expect(http.StatusBadRequest, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "john.doe@company.com"}, nil)
}

func TestAuthenticationAndRoleGates(t *testing.T) {
	c := startApp(t)
	employeeToken, _ := c.login("john.doe@company.com", "password123")
	hrToken, _ := c.login("alice.johnson@company.com", "password123")

	c.expect(http.StatusUnauthorized, http.MethodGet, "/api/reviews/my", "", nil, nil)
	c.expect(http.StatusForbidden, http.MethodGet, "/api/reviews/my", "not-a-token", nil, nil)
	for _, path := range []string{"/api/reviews/all", "/api/goals/all", "/api/feedback/all"} {
		c.expect(http.StatusForbidden, http.MethodGet, path, employeeToken, nil, nil)
		c.expect(http.StatusOK, http.MethodGet, path, hrToken, nil, nil)
	}
	c.expect(http.StatusForbidden, http.MethodPost, "/api/reviews", employeeToken, map[string]any{"employeeId": "EMP001"}, nil)
	c.expect(http.StatusNotFound, http.MethodGet, "/api/unknown", employeeToken, nil, nil)

	var directory []map[string]any
	c.expect(http.StatusOK, http.MethodGet, "/api/employees", employeeToken, nil, &directory)
	for _, entry := range directory {
		if _, ok := entry["email"]; ok {
			t.Fatalf("employee directory leaked email: %+v", entry)
		}
	}
}

func TestAnonymousFeedbackIsRedactedForHR(t *testing.T) {
	c := startApp(t)
	hrToken, _ := c.login("alice.johnson@company.com", "password123")

	var feedback []map[string]any
	env := c.expect(http.StatusOK, http.MethodGet, "/api/feedback/all", hrToken, nil, &feedback)
	if len(feedback) != 2 {
		t.Fatalf("expected two demo feedback items, got %d", len(feedback))
	}
	raw := string(env.Data)
	if strings.Contains(raw, "EMP002") || strings.Contains(raw, "Sarah Wilson") {
		t.Fatalf("anonymous author leaked: %s", raw)
	}
	if !strings.Contains(raw, "Alice Johnson") {
		t.Fatalf("expected named author to remain visible: %s", raw)
	}
}

func TestGoalProgressScenario(t *testing.T) {
	c := startApp(t)
	hrToken, _ := c.login("alice.johnson@company.com", "password123")

	for _, emp := range []map[string]string{
		{"employeeId": "EMP010", "name": "Dana Reyes", "email": "dana.reyes@company.com", "password": "password123", "department": "Engineering", "position": "QA Engineer", "hireDate": "2024-03-01"},
		{"employeeId": "EMP011", "name": "Sam Ortiz", "email": "sam.ortiz@company.com", "password": "password123", "department": "Engineering", "position": "Developer"},
	} {
		c.expect(http.StatusCreated, http.MethodPost, "/api/employees", hrToken, emp, nil)
	}
	c.expect(http.StatusConflict, http.MethodPost, "/api/employees", hrToken, map[string]string{
		"employeeId": "EMP010", "name": "Dup", "email": "other@company.com", "password": "password123",
	}, nil)

	var goal struct {
		ID         string `json:"id"`
		EmployeeID string `json:"employeeId"`
		Progress   int    `json:"progress"`
		Status     string `json:"status"`
	}
	c.expect(http.StatusCreated, http.MethodPost, "/api/goals", hrToken, map[string]any{
		"employeeId": "EMP010", "title": "Automate regression suite", "targetDate": "2025-03-31", "progress": 0,
	}, &goal)
	if goal.EmployeeID != "EMP010" || goal.Progress != 0 || goal.Status != "not_started" {
		t.Fatalf("unexpected goal %+v", goal)
	}

	ownerToken, _ := c.login("dana.reyes@company.com", "password123")
	otherToken, _ := c.login("sam.ortiz@company.com", "password123")

	path := "/api/goals/" + goal.ID + "/progress"
	c.expect(http.StatusOK, http.MethodPut, path, ownerToken, map[string]any{"progress": 50, "status": "in_progress"}, &goal)
	if goal.Progress != 50 || goal.Status != "in_progress" {
		t.Fatalf("unexpected progress update %+v", goal)
	}
	c.expect(http.StatusForbidden, http.MethodPut, path, otherToken, map[string]any{"progress": 90}, nil)
	c.expect(http.StatusNotFound, http.MethodPut, "/api/goals/missing/progress", ownerToken, map[string]any{"progress": 10}, nil)

	c.expect(http.StatusOK, http.MethodPut, path, hrToken, map[string]any{"progress": 150}, &goal)
	if goal.Progress != 100 {
		t.Fatalf("expected progress clamped to 100, got %d", goal.Progress)
	}
	c.expect(http.StatusOK, http.MethodPut, path, hrToken, map[string]any{"progress": -1e20}, &goal)
	if goal.Progress != 0 {
		t.Fatalf("expected huge negative progress clamped to 0, got %d", goal.Progress)
	}
	c.expect(http.StatusOK, http.MethodPut, path, hrToken, map[string]any{"progress": 1e20, "status": "completed"}, &goal)
	if goal.Progress != 100 || goal.Status != "completed" {
		t.Fatalf("expected huge progress clamped to 100, got %+v", goal)
	}

	var bigGoal struct {
		Progress int `json:"progress"`
	}
	c.expect(http.StatusCreated, http.MethodPost, "/api/goals", ownerToken, map[string]any{"title": "Stretch", "progress": 1e20}, &bigGoal)
	if bigGoal.Progress != 100 {
		t.Fatalf("expected new goal progress clamped to 100, got %d", bigGoal.Progress)
	}

	var stats map[string]float64
	c.expect(http.StatusOK, http.MethodGet, "/api/dashboard/stats", otherToken, nil, &stats)
	if stats["avgRating"] != 0 || stats["avgProgress"] != 0 || stats["totalGoals"] != 0 {
		t.Fatalf("expected zero stats for a new employee, got %+v", stats)
	}
}

func TestReviewLifecycleAndPDF(t *testing.T) {
	c := startApp(t)
	hrToken, _ := c.login("alice.johnson@company.com", "password123")
	johnToken, _ := c.login("john.doe@company.com", "password123")
	sarahToken, _ := c.login("sarah.wilson@company.com", "password123")

	env := c.expect(http.StatusBadRequest, http.MethodPost, "/api/reviews", hrToken, map[string]any{
		"employeeId": "EMP003", "reviewPeriodStart": "2024-07-01", "reviewPeriodEnd": "2024-12-31", "overallRating": 7,
	}, nil)
	if env.Error == nil || len(env.Error.Details) == 0 || env.Error.Details[0].Field != "overallRating" {
		t.Fatalf("expected overallRating issue, got %+v", env.Error)
	}

	var review struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	c.expect(http.StatusCreated, http.MethodPost, "/api/reviews", hrToken, map[string]any{
		"employeeId": "EMP003", "reviewPeriodStart": "2024-07-01", "reviewPeriodEnd": "2024-12-31",
		"overallRating": 3.5, "communication": 4, "comments": "Solid half year.",
	}, &review)
	if review.Status != "submitted" {
		t.Fatalf("expected submitted review, got %q", review.Status)
	}
	c.expect(http.StatusConflict, http.MethodPut, "/api/reviews/"+review.ID+"/status", hrToken, map[string]string{"status": "approved"}, nil)
	c.expect(http.StatusOK, http.MethodPut, "/api/reviews/"+review.ID+"/status", hrToken, map[string]string{"status": "reviewed"}, &review)
	if review.Status != "reviewed" {
		t.Fatalf("expected reviewed, got %q", review.Status)
	}

	var mine []struct {
		ID           string `json:"id"`
		ReviewerName string `json:"reviewerName"`
	}
	c.expect(http.StatusOK, http.MethodGet, "/api/reviews/my", johnToken, nil, &mine)
	if len(mine) != 1 || mine[0].ReviewerName != "Alice Johnson" {
		t.Fatalf("unexpected reviews for EMP001: %+v", mine)
	}

	pdfPath := "/api/reviews/" + mine[0].ID + "/pdf"
	status, _, body := c.do(http.MethodGet, pdfPath, johnToken, nil)
	if status != http.StatusOK || !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("expected pdf for the subject, got %d", status)
	}
	c.expect(http.StatusForbidden, http.MethodGet, pdfPath, sarahToken, nil, nil)
	c.expect(http.StatusOK, http.MethodGet, pdfPath, hrToken, nil, nil)

	var stats map[string]float64
	c.expect(http.StatusOK, http.MethodGet, "/api/dashboard/stats", hrToken, nil, &stats)
	if stats["totalEmployees"] != 3 || stats["totalReviews"] != 2 || stats["pendingReviews"] != 0 {
		t.Fatalf("unexpected hr stats %+v", stats)
	}
	if stats["avgRating"] != 3.85 {
		t.Fatalf("expected avgRating 3.85, got %v", stats["avgRating"])
	}
}

func TestOperationalEndpoints(t *testing.T) {
	c := startApp(t)
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		if status, _, _ := c.do(http.MethodGet, path, "", nil); status != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, status)
		}
	}
}

func TestMFAJourney(t *testing.T) {
	c := startApp(t, func(cfg *config.Config) {
		cfg.DataEncryptionKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	})
	token, _ := c.login("michael.brown@company.com", "password123")

	var enrollment struct {
		Secret     string `json:"secret"`
		OTPAuthURL string `json:"otpauthUrl"`
	}
	c.expect(http.StatusOK, http.MethodPost, "/api/auth/mfa/setup", token, nil, &enrollment)
	if enrollment.Secret == "" || !strings.HasPrefix(enrollment.OTPAuthURL, "otpauth://") {
		t.Fatalf("unexpected enrollment %+v", enrollment)
	}
	c.expect(http.StatusBadRequest, http.MethodPost, "/api/auth/mfa/enable", token, map[string]string{"code": "000000"}, nil)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	c.expect(http.StatusOK, http.MethodPost, "/api/auth/mfa/enable", token, map[string]string{"code": code}, nil)

	env := c.expect(http.StatusConflict, http.MethodPost, "/api/auth/mfa/setup", token, nil, nil)
	if env.Error == nil || env.Error.Code != "mfa_enabled" {
		t.Fatalf("expected mfa_enabled, got %+v", env.Error)
	}

	_, env, _ = c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "michael.brown@company.com", "password": "password123"})
	if env.Error == nil || env.Error.Code != "mfa_required" {
		t.Fatalf("expected mfa_required, got %+v", env.Error)
	}
	c.expect(http.StatusOK, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "michael.brown@company.com", "password": "password123", "mfaCode": code,
	}, nil)
}

func TestMFAUnavailableWithoutKey(t *testing.T) {
	c := startApp(t)
	token, _ := c.login("michael.brown@company.com", "password123")
	env := c.expect(http.StatusBadRequest, http.MethodPost, "/api/auth/mfa/setup", token, nil, nil)
	if env.Error == nil || env.Error.Code != "mfa_unavailable" {
		t.Fatalf("expected mfa_unavailable, got %+v", env.Error)
	}
}
