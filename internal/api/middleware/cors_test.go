package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func preflight(headers string) *http.Request {
	req := httptest.NewRequest("OPTIONS", "/chat", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	if headers != "" {
		req.Header.Set("Access-Control-Request-Headers", headers)
	}
	return req
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	wrapped := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, preflight("Content-Type, X-API-KEY"))

	if w.Code < 200 || w.Code > 299 {
		t.Errorf("expected 2xx, got %d", w.Code)
	}
	if called {
		t.Error("preflight should not reach the handler")
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
	allowed := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
	if !strings.Contains(allowed, "content-type") || !strings.Contains(allowed, "x-api-key") {
		t.Errorf("unexpected allow headers %q", allowed)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("expected max age 600, got %q", got)
	}
}

func TestCORS_PreflightRejectsUnknownHeader(t *testing.T) {
	wrapped := CORS()(okHandler())

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, preflight("X-Something-Else"))

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow origin for unknown header, got %q", got)
	}
}

func TestCORS_SimpleRequest(t *testing.T) {
	wrapped := CORS()(okHandler())

	req := httptest.NewRequest("POST", "/chat", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); got != "X-Request-Id" && got != "X-Request-ID" {
		t.Errorf("expected request id exposed, got %q", got)
	}
}
