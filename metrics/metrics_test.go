package metrics

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Operation("x", OutcomeOK)
		m.ArchiveFailed()
		m.Broadcast()
		m.RecordDBStats(sql.DBStats{})
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.Operation("record_match", OutcomeOK)
	m.Operation("record_match", OutcomeOK)
	m.Operation("record_match", OutcomeValidationError)
	m.Broadcast()
	m.RecordDBStats(sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("record_match", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("record_match", OutcomeValidationError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.broadcasts))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbOpen))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dbIdle))
}

func TestMetrics_MiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Delete("/players/{playerID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/players/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("/players/{playerID}", http.MethodDelete, "200")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tournament_recorder_http_request_duration_seconds"))
}
