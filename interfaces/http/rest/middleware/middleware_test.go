package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "gdpdash/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimiddleware.GetReqID(r.Context())
	}))

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeObserver struct {
	got []recordedRequest
}

func (f *fakeObserver) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	f.got = append(f.got, recordedRequest{method, route, status})
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	observer := &fakeObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(observer))
	r.Get("/years/{year}", okHandler)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/years/1999", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, observer.got, 2)
	assert.Equal(t, recordedRequest{"GET", "/years/{year}", http.StatusOK}, observer.got[0])
	assert.Equal(t, http.StatusNotFound, observer.got[1].status)
}

func TestSlidingWindowLimiter(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewSlidingWindowLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"), "keys are limited independently")

	now = now.Add(61 * time.Second)
	assert.True(t, limiter.Allow("a"), "window slides past old requests")
}

func TestSlidingWindowLimiter_Sweep(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewSlidingWindowLimiter(1, time.Minute)
	limiter.now = func() time.Time { return now }

	for i := 0; i <= sweepThreshold; i++ {
		limiter.Allow(time.Duration(i).String())
	}
	now = now.Add(2 * time.Minute)
	limiter.Allow("fresh")

	assert.Len(t, limiter.windows, 1)
}

func TestRateLimit_Rejects(t *testing.T) {
	limiter := NewSlidingWindowLimiter(1, time.Minute)
	h := rateLimitWith(limiter, apperrors.NewErrorHandler(zap.NewNop(), false))(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/charts/trend.png", nil)
	req.RemoteAddr = "10.0.0.1:5000"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"type":"RATE_LIMIT"`)

	other := httptest.NewRequest(http.MethodGet, "/charts/trend.png", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
