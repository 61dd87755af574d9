package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStatusClass(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "2xx"},
		{http.StatusOK, "2xx"},
		{http.StatusNoContent, "2xx"},
		{http.StatusNotFound, "4xx"},
		{http.StatusServiceUnavailable, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusClass(tt.code), "code %d", tt.code)
	}
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	routed := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/{id}", "4xx")
	unmatched := HTTPRequestsTotal.WithLabelValues(http.MethodGet, RouteUnmatched, "4xx")
	routedBefore := testutil.ToFloat64(routed)
	unmatchedBefore := testutil.ToFloat64(unmatched)

	for _, path := range []string{"/items/1", "/items/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, routedBefore+2, testutil.ToFloat64(routed), "ids collapse into one series")
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(unmatched))
	assert.Zero(t, testutil.ToFloat64(HTTPRequestsInFlight))
}
