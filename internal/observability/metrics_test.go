package observability

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.ObserveInstrument(nil)
	m.ObserveInstrument(nil)
	m.ObserveInstrument(errors.New("boom"))
	m.ObserveAlert("RSI_LOW")
	m.ObserveNotification()

	started := time.Unix(1700000000, 0)
	m.ObserveRun(started, started.Add(3*time.Second))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.InstrumentsAnalyzed.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InstrumentsAnalyzed.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsFired.WithLabelValues("RSI_LOW")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent))
	assert.Equal(t, 1700000003.0, testutil.ToFloat64(m.LastRunTimestamp))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveInstrument(nil)
		m.ObserveAlert("PRICE_HIGH")
		m.ObserveNotification()
		m.ObserveFetch("mock", time.Second)
		m.ObserveRun(time.Now(), time.Now())
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "")
	m.ObserveInstrument(nil)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "stock_sentinel_analysis_instruments_analyzed_total"))
}

func TestServer_Routes(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg, "test").ObserveAlert("PRICE_HIGH")
	s := NewServer(":0", reg)

	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `test_alerts_total{kind="PRICE_HIGH"} 1`)
}
