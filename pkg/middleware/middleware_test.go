package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsWrapCountsByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test_service")

	h := m.Wrap("/api/tags/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tags/", nil))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tags/", nil))

	got := testutil.ToFloat64(m.requestCounter.WithLabelValues(http.MethodGet, "/api/tags/", "418"))
	assert.Equal(t, float64(2), got)
}

func TestLoggingPassesThrough(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/recipes/", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

type fakeCounter struct {
	hits map[string]int64
	err  error
}

func (f *fakeCounter) Hit(_ context.Context, key string, _ time.Time, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := f.hits[key]
	f.hits[key]++
	return count, nil
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	limiter := NewRateLimiter(&fakeCounter{hits: map[string]int64{}}, 2, time.Minute)
	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func(addr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/token/login/", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	first := request("10.0.0.1:5000")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1:5001").Code)

	limited := request("10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "Слишком много запросов")

	// other clients keep their own window
	assert.Equal(t, http.StatusOK, request("10.0.0.2:5000").Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	limiter := NewRateLimiter(&fakeCounter{err: errors.New("redis down")}, 1, time.Minute)
	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
