package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecovererReturnsEnvelope(t *testing.T) {
	handler := RequestID(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/goals/my", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "internal_error") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatal("panic value leaked to client")
	}
}

func TestBodyLimitRejectsLargeBodies(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(noContent))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(`{"title":"too long"}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/goals/my", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected reads to pass, got %d", rec.Code)
	}
}

func TestSecureHeadersByPath(t *testing.T) {
	handler := SecureHeaders(true)(http.HandlerFunc(noContent))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reviews/my", nil))
	if rec.Header().Get("Content-Security-Policy") != apiCSP || rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("unexpected api headers %v", rec.Header())
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("expected HSTS in production")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard.html", nil))
	if rec.Header().Get("Content-Security-Policy") != pageCSP {
		t.Fatalf("unexpected page csp %q", rec.Header().Get("Content-Security-Policy"))
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := CORS([]string{"http://dash.test"})(http.HandlerFunc(noContent))

	req := httptest.NewRequest(http.MethodGet, "/api/goals/my", nil)
	req.Header.Set("Origin", "http://dash.test")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://dash.test" {
		t.Fatalf("expected allowed origin, got %v", rec.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/goals/my", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unexpected origin allowed")
	}
}
