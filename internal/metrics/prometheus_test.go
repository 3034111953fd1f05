package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	m := NewManager(WithRegistry(prometheus.NewRegistry()))

	m.RecordHTTPRequest("/pizzas/:id", http.MethodGet, "404", 5*time.Millisecond)
	m.RecordHTTPRequest("/pizzas/:id", http.MethodGet, "404", 7*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/pizzas/:id", http.MethodGet, "404")))
}

func TestRecordStoreOperation(t *testing.T) {
	m := NewManager(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	m.RecordStoreOperation("update", "conflict", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("update", "conflict")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewManager()
	m.RecordStoreOperation("list", "ok", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pizzastore_store_operations_total{operation="list",outcome="ok"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestManagerOptions(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewManager(
		WithRegistry(registry),
		WithNamespace("shop"),
		WithSubsystem("edge"),
		WithHistogramBuckets([]float64{0.01, 0.1}),
	)
	m.RecordHTTPRequest("/pizzas", http.MethodGet, "200", 50*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	assert.Contains(t, body, `shop_edge_http_requests_total{method="GET",route="/pizzas",status_code="200"} 1`)
	assert.Contains(t, body, `shop_edge_http_request_duration_seconds_bucket{method="GET",route="/pizzas",status_code="200",le="0.1"} 1`)
	assert.NotContains(t, body, `le="0.25"`)
}

func TestEmptyOptionsKeepDefaults(t *testing.T) {
	m := NewManager(WithRegistry(prometheus.NewRegistry()), WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil))

	assert.Equal(t, "pizzastore", m.namespace)
	assert.Equal(t, "api", m.subsystem)
	assert.Equal(t, prometheus.DefBuckets, m.histogramBuckets)
}
