package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 3, CleanupInterval: time.Minute})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("fourth request should be rejected")
	}
	// Other clients are unaffected.
	if !rl.Allow("5.6.7.8") {
		t.Fatal("different client should be allowed")
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	handler := rl.Middleware(
		func(r *http.Request) string { return "9.9.9.9" },
		nil,
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") != "60" {
		t.Fatal("missing Retry-After header")
	}
}

func TestCleanupRemovesStaleClients(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 10, CleanupInterval: time.Hour})
	defer rl.Stop()

	rl.Allow("1.1.1.1")
	rl.Allow("2.2.2.2")
	if rl.ActiveClients() != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", rl.ActiveClients())
	}

	rl.mu.Lock()
	rl.clients["1.1.1.1"].lastRequest = time.Now().Add(-time.Hour)
	rl.mu.Unlock()

	rl.cleanupStaleEntries()
	if rl.ActiveClients() != 1 {
		t.Fatalf("expected 1 tracked client after cleanup, got %d", rl.ActiveClients())
	}
}
