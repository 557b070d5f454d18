package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		header   string
		method   string
		expected int
	}{
		{"disabled", "", "", "GET", http.StatusOK},
		{"valid token", "s3cret", "Bearer s3cret", "GET", http.StatusOK},
		{"missing header", "s3cret", "", "GET", http.StatusUnauthorized},
		{"wrong token", "s3cret", "Bearer nope", "GET", http.StatusUnauthorized},
		{"wrong scheme", "s3cret", "Basic s3cret", "GET", http.StatusUnauthorized},
		{"preflight", "s3cret", "", "OPTIONS", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/orders/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			BearerAuth(tt.token)(okHandler).ServeHTTP(rr, req)
			assert.Equal(t, tt.expected, rr.Code)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware(DefaultCORSConfig())(okHandler)

	req := httptest.NewRequest("OPTIONS", "/api/carts/user/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader)
}

func TestIsOriginAllowed(t *testing.T) {
	assert.True(t, isOriginAllowed("https://a.example.edu", []string{"*.example.edu"}))
	assert.False(t, isOriginAllowed("https://evilexample.edu", []string{"*.example.edu"}))
	assert.True(t, isOriginAllowed("http://x", []string{"http://x"}))
	assert.False(t, isOriginAllowed("http://x", nil))
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
	ok, wait := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, wait)

	ok, _ = rl.Allow("b")
	assert.True(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	rl.Cleanup()
	assert.Empty(t, rl.attempts)
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimit(NewRateLimiter(1, time.Minute))(okHandler)

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.9:1"

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}
