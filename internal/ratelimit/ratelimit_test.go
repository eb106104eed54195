// File: internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig() *Config {
	return &Config{
		WindowSize:    100 * time.Millisecond,
		MaxAttempts:   3,
		CleanupPeriod: time.Minute,
		BanDuration:   150 * time.Millisecond,
	}
}

func TestAllow_WithinLimit(t *testing.T) {
	limiter := NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("user:1")
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		if info.Remaining != 3-i-1 {
			t.Errorf("attempt %d: expected %d remaining, got %d", i+1, 3-i-1, info.Remaining)
		}
	}
}

func TestAllow_BansAfterLimit(t *testing.T) {
	limiter := NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		limiter.Allow("user:1")
	}

	allowed, info := limiter.Allow("user:1")
	if allowed {
		t.Fatal("fourth attempt should be banned")
	}
	if !info.Banned {
		t.Error("ban not flagged")
	}
	if info.RetryAfter <= 0 {
		t.Error("retry-after not set")
	}
}

func TestAllow_BanExpires(t *testing.T) {
	limiter := NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	for i := 0; i < 4; i++ {
		limiter.Allow("user:1")
	}

	time.Sleep(200 * time.Millisecond)

	if allowed, _ := limiter.Allow("user:1"); !allowed {
		t.Error("expected access after the ban expired")
	}
}

func TestAllow_IdentifiersAreIndependent(t *testing.T) {
	limiter := NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	for i := 0; i < 4; i++ {
		limiter.Allow("user:1")
	}

	if allowed, _ := limiter.Allow("user:2"); !allowed {
		t.Error("second identifier throttled by the first")
	}
}

func TestReset(t *testing.T) {
	limiter := NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		limiter.Allow("user:1")
	}
	limiter.Reset("user:1")

	allowed, info := limiter.Allow("user:1")
	if !allowed {
		t.Fatal("expected access after reset")
	}
	if info.Remaining != 2 {
		t.Errorf("counter not reset: %d remaining", info.Remaining)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if ip := GetClientIP(req); ip != "10.0.0.1" {
		t.Errorf("remote addr: got %q", ip)
	}

	req.Header.Set("X-Real-IP", "172.16.0.9")
	if ip := GetClientIP(req); ip != "172.16.0.9" {
		t.Errorf("real ip: got %q", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if ip := GetClientIP(req); ip != "203.0.113.7" {
		t.Errorf("forwarded for: got %q", ip)
	}
}
