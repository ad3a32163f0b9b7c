package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 6th request should be rate limited (exceeded burst)
	if rl.Allow("10.0.0.1") {
		t.Error("Request 6 should be rate limited")
	}
}

func TestRateLimiter_DifferentClients(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	// Exhaust the first client's burst
	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Errorf("First client request %d should be allowed", i+1)
		}
	}

	if rl.Allow("10.0.0.1") {
		t.Error("First client should be rate limited")
	}

	// A second client still has its full burst
	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.2") {
			t.Errorf("Second client request %d should be allowed", i+1)
		}
	}
}

func TestRateLimitMiddleware_Returns429WhenExhausted(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 1)
	defer rl.Stop()

	mw := RateLimitMiddleware(rl)
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		req.RemoteAddr = "10.0.0.1:55000"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := mw(next)(c); err != nil {
			t.Fatalf("Middleware returned error: %v", err)
		}
		return rec
	}

	first := call()
	if first.Code != http.StatusOK {
		t.Errorf("Expected first request to pass, got %d", first.Code)
	}
	if first.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("Expected rate limit headers on success")
	}

	second := call()
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("Expected second request limited with 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header on 429")
	}
}
