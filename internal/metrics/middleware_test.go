package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/services/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/services/{id}", "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/services/abc", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/services/{id}", "404"))
	assert.Equal(t, before+1, after)
}

func TestStatusWriter_DefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &statusWriter{ResponseWriter: rec, status: http.StatusOK}
	_, _ = w.Write([]byte("ok"))
	w.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, w.status)
}

func TestViewIncremented_Outcomes(t *testing.T) {
	before := testutil.ToFloat64(viewIncrements.WithLabelValues("service", "error"))
	ViewIncremented("service", assert.AnError)
	assert.Equal(t, before+1, testutil.ToFloat64(viewIncrements.WithLabelValues("service", "error")))
}
