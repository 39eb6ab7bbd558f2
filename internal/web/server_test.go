package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// ---- Security headers ----

func TestSecurityHeaders(t *testing.T) {
	handler := securityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

// ---- Rate limiter ----

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.allow("192.0.2.1") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if rl.allow("192.0.2.1") {
		t.Error("request over the limit allowed, want denied")
	}

	// Separate clients get separate buckets.
	if !rl.allow("192.0.2.2") {
		t.Error("fresh client denied, want allowed")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	handler := rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/roster", nil)
	req.RemoteAddr = "192.0.2.1:5000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	// A new connection from the same host shares the bucket.
	req.RemoteAddr = "192.0.2.1:5001"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}

	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "rate limit exceeded" {
		t.Errorf("error = %q, want rate limit exceeded", body.Error)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"192.0.2.1:5000", "192.0.2.1"},
		{"192.0.2.1", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
	}
	for _, tt := range tests {
		if got := clientIP(tt.addr); got != tt.want {
			t.Errorf("clientIP(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

// ---- Error responses ----

func TestWriteError_InternalDetailHidden(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/roster", nil)

	writeError(rec, req, http.StatusInternalServerError, "pq: connection refused")

	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("error = %q, internals must not leak", body.Error)
	}
}

func TestWriteError_ClientDetailKept(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/roster", nil)

	writeError(rec, req, http.StatusBadRequest, "invalid team")

	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "invalid team" {
		t.Errorf("error = %q, want invalid team", body.Error)
	}
}
