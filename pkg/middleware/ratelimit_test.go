package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func sessionRequest(sessionID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	if sessionID != "" {
		req = req.WithContext(WithSessionID(req.Context(), sessionID))
	}
	return req
}

func TestRateLimit_WithinBurstPasses(t *testing.T) {
	handler := NewRateLimiter(10, 10, newTestLogger()).Handler(okHandler())

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, sessionRequest("s1"))
		assert.Equal(t, http.StatusOK, rr.Code, "request %d should pass", i+1)
	}
}

func TestRateLimit_ExceedingBurstReturns429(t *testing.T) {
	handler := NewRateLimiter(0.001, 2, newTestLogger()).Handler(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, sessionRequest("s1"))
		codes = append(codes, rr.Code)
		if rr.Code == http.StatusTooManyRequests {
			assert.Contains(t, rr.Body.String(), "RATE_LIMITED")
			assert.Equal(t, "1", rr.Header().Get("Retry-After"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_SessionsAreIndependent(t *testing.T) {
	handler := NewRateLimiter(0.001, 1, newTestLogger()).Handler(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest("s1"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest("s1"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest("s2"))
	assert.Equal(t, http.StatusOK, rr.Code, "same IP, different session")
}

func TestRateLimit_FallsBackToClientIP(t *testing.T) {
	handler := NewRateLimiter(0.001, 1, newTestLogger()).Handler(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest(""))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest(""))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRateLimit_CookielessRequestsShareIPBucket(t *testing.T) {
	limiter := NewRateLimiter(1, 1, newTestLogger())
	handler := Session(DefaultSessionConfig())(limiter.Handler(okHandler()))

	limited := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.GreaterOrEqual(t, limited, 45)
	assert.Equal(t, 1, limiter.store.len())
}

func TestRateLimit_CookieSessionIsNotTheIPBucket(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1, newTestLogger())
	handler := Session(DefaultSessionConfig())(limiter.Handler(okHandler()))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	handler.ServeHTTP(first, req)
	require.Equal(t, http.StatusOK, first.Code)
	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	req.AddCookie(cookies[0])
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "returning session gets its own bucket")
	assert.Equal(t, 2, limiter.store.len())
}

func TestRateLimit_DisabledWhenRPSNotPositive(t *testing.T) {
	handler := NewRateLimiter(0, 1, newTestLogger()).Handler(okHandler())

	for i := 0; i < 20; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, sessionRequest("s1"))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestVisitorStore_CleanupEvictsStale(t *testing.T) {
	now := time.Now()
	store := newVisitorStore(1, 1, time.Minute)
	store.nowFunc = func() time.Time { return now }

	store.getVisitor("old")
	now = now.Add(2 * time.Minute)
	store.getVisitor("fresh")
	store.cleanup()

	assert.Equal(t, 1, store.len())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.9:1", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.9:1", "198.51.100.7"},
		{"remote addr", nil, "192.0.2.1:4444", "192.0.2.1"},
		{"garbage forwarded", map[string]string{"X-Forwarded-For": "nope"}, "192.0.2.1:4444", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
