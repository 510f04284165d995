package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-quiz/pkg/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestEndpointLimit(t *testing.T) {
	m := NewMiddleware(&Config{
		BucketTTL: time.Hour,
		EndpointLimits: map[string]EndpointLimit{
			"POST /api/login": {Capacity: 2, RefillRate: 0.01},
		},
	})
	handler := m.Handler(okHandler())

	for i := 0; i < 2; i++ {
		rec := doRequest(handler, http.MethodPost, "/api/login", "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := doRequest(handler, http.MethodPost, "/api/login", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Too many requests")
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestEndpointLimit_IsPerIP(t *testing.T) {
	m := NewMiddleware(&Config{
		BucketTTL: time.Hour,
		EndpointLimits: map[string]EndpointLimit{
			"POST /api/login": {Capacity: 1, RefillRate: 0.01},
		},
	})
	handler := m.Handler(okHandler())

	require.Equal(t, http.StatusOK, doRequest(handler, http.MethodPost, "/api/login", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, http.MethodPost, "/api/login", "10.0.0.1").Code)

	// A different client still gets through.
	assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodPost, "/api/login", "10.0.0.2").Code)
}

func TestEndpointLimit_DoesNotAffectOtherRoutes(t *testing.T) {
	m := NewMiddleware(&Config{
		BucketTTL: time.Hour,
		EndpointLimits: map[string]EndpointLimit{
			"POST /api/login": {Capacity: 1, RefillRate: 0.01},
		},
	})
	handler := m.Handler(okHandler())

	require.Equal(t, http.StatusOK, doRequest(handler, http.MethodPost, "/api/login", "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(handler, http.MethodPost, "/api/login", "10.0.0.1").Code)

	assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodGet, "/health", "10.0.0.1").Code)
}

func TestPerIPLimit(t *testing.T) {
	m := NewMiddleware(&Config{
		PerIPEnabled:    true,
		PerIPCapacity:   3,
		PerIPRefillRate: 0.01,
		BucketTTL:       time.Hour,
	})
	handler := m.Handler(okHandler())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doRequest(handler, http.MethodGet, "/health", "10.0.0.1").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, http.MethodGet, "/health", "10.0.0.1").Code)
}

func TestRateLimitHeaders(t *testing.T) {
	m := NewMiddleware(&Config{
		PerIPEnabled:    true,
		PerIPCapacity:   10,
		PerIPRefillRate: 1,
		IncludeHeaders:  true,
		BucketTTL:       time.Hour,
	})
	handler := m.Handler(okHandler())

	rec := doRequest(handler, http.MethodGet, "/health", "10.0.0.1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit-IP"))
}

func TestClientIPFromForwardedHeader(t *testing.T) {
	m := NewMiddleware(&Config{
		PerIPEnabled:    true,
		PerIPCapacity:   1,
		PerIPRefillRate: 0.01,
		BucketTTL:       time.Hour,
	})
	handler := m.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same forwarded client is now limited even from another socket.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "127.0.0.2:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestFromEnvConfig(t *testing.T) {
	cfg := config.DefaultRateLimitConfig()
	c := FromEnvConfig(cfg)

	assert.True(t, c.GlobalEnabled)
	assert.True(t, c.PerIPEnabled)
	assert.Contains(t, c.EndpointLimits, "POST /api/login")
	assert.Contains(t, c.EndpointLimits, "POST /api/register")
	assert.Contains(t, c.EndpointLimits, "POST /api/resend-otp")

	cfg.ResendOTPEnabled = false
	c = FromEnvConfig(cfg)
	assert.NotContains(t, c.EndpointLimits, "POST /api/resend-otp")
}
