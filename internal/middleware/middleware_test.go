package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "s3cret"

func okHandler(seen *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if trace, ok := r.Context().Value(config.TRACE_ID_KEY).(string); ok {
			*seen = trace
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func serve(h http.HandlerFunc, remote, authHeader, trace string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.RemoteAddr = remote
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if trace != "" {
		req.Header.Set("X-Trace-Id", trace)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestWrap_BearerAuth(t *testing.T) {
	Init(&config.Settings{AuthToken: testToken})
	var seen string
	h := Wrap(okHandler(&seen))

	tests := []struct {
		name   string
		remote string
		header string
		want   int
	}{
		{"valid token", "10.0.0.1:1000", "Bearer " + testToken, http.StatusNoContent},
		{"wrong token", "10.0.0.2:1000", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "10.0.0.3:1000", "", http.StatusUnauthorized},
		{"not bearer", "10.0.0.4:1000", "Basic " + testToken, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.remote, tt.header, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestIsValidBearerToken_Settings(t *testing.T) {
	log := logger_i.NewLogger("test")

	Init(&config.Settings{})
	assert.False(t, IsValidBearerToken("Bearer ", log), "no configured token rejects everything")

	Init(&config.Settings{NoAuthBypass: true})
	assert.True(t, IsValidBearerToken("", log))

	Init(&config.Settings{AuthToken: testToken})
	assert.True(t, IsValidBearerToken("Bearer "+testToken, log))
	assert.False(t, IsValidBearerToken("Bearer "+testToken+"x", log))
}

func TestWrap_TraceId(t *testing.T) {
	Init(&config.Settings{NoAuthBypass: true})
	var seen string
	h := Wrap(okHandler(&seen))

	rec := serve(h, "10.0.1.1:1000", "", "trace-123")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "trace-123", seen)
	assert.Equal(t, "trace-123", rec.Header().Get("X-Trace-Id"))

	rec = serve(h, "10.0.1.1:1000", "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "trace-123", seen)
	assert.Equal(t, seen, rec.Header().Get("X-Trace-Id"))
}

func TestWrap_RateLimit(t *testing.T) {
	Init(&config.Settings{NoAuthBypass: true})
	var seen string
	h := Wrap(okHandler(&seen))

	var limited bool
	for i := 0; i < config.BURST_RATE_LIMIT_PER_SECOND+5; i++ {
		rec := serve(h, "10.0.2.1:1000", "", "")
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	assert.True(t, limited, "burst above the limit is rejected")

	// other clients keep their own budget
	assert.Equal(t, http.StatusNoContent, serve(h, "10.0.2.2:1000", "", "").Code)
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	assert.Same(t, l.GetLimiter("a"), l.GetLimiter("a"))
	assert.NotSame(t, l.GetLimiter("a"), l.GetLimiter("b"))
}

func TestIPRateLimiter_ForgetsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	first := l.GetLimiter("quiet")
	l.GetLimiter("busy")
	require.Equal(t, 2, l.Len())

	now = now.Add(limiterIdleTimeout / 2)
	l.GetLimiter("busy")

	now = now.Add(limiterIdleTimeout/2 + time.Second)
	l.GetLimiter("busy")
	assert.Equal(t, 1, l.Len(), "idle client is dropped, active one kept")
	assert.NotSame(t, first, l.GetLimiter("quiet"), "a returning client starts with a fresh bucket")
}

func TestRouteLabel(t *testing.T) {
	var label string
	r := chi.NewRouter()
	r.Get("/pdf/{id}", func(w http.ResponseWriter, req *http.Request) {
		label = routeLabel(req)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pdf/abc", nil))
	assert.Equal(t, "/pdf/{id}", label)

	assert.Equal(t, "/raw/path", routeLabel(httptest.NewRequest(http.MethodGet, "/raw/path", nil)))
}
