package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInstrumentLogsRoutePattern(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := Instrument(zap.New(core), mux)

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET /v1/things/{id}", http.MethodGet, "418"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/things/42", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/v1/things/42", fields["path"])
	assert.Equal(t, "GET /v1/things/{id}", fields["route"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET /v1/things/{id}", http.MethodGet, "418"))
	assert.Equal(t, before+1, after)
}

func TestInstrumentDefaultsToOK(t *testing.T) {
	handler := Instrument(nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
