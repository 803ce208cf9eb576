package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit_PerIP(t *testing.T) {
	handler := RateLimit(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// Burst is half the window budget.
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1001").Code)

	rec := call("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"too many requests"}`, rec.Body.String())

	// Another client has its own bucket.
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1000").Code)
	// RealIP may leave a bare address without a port.
	assert.Equal(t, http.StatusNoContent, call("10.0.0.3").Code)
}

func TestRateLimit_MinimumBurst(t *testing.T) {
	l := newIPLimiter(1, time.Second)
	assert.Equal(t, 1, l.burst)
	assert.True(t, l.getLimiter("x").Allow())
	assert.Same(t, l.getLimiter("x"), l.getLimiter("x"))
}
