package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	m := NewPrometheusMetrics()

	m.Counter(MetricHabitCompletions, 1, T("frequency", "daily"))
	m.Counter(MetricHabitCompletions, 2, T("frequency", "daily"))
	m.Counter(MetricHabitCompletions, 1, T("frequency", "weekly"))
	m.Gauge(MetricOutboxLag, 4.5)
	m.Timing(MetricOutboxBatchDuration, 250*time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.counters[MetricHabitCompletions].WithLabelValues("daily")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.counters[MetricHabitCompletions].WithLabelValues("weekly")))
	assert.Equal(t, 4.5, testutil.ToFloat64(m.gauges[MetricOutboxLag].WithLabelValues()))
	assert.Equal(t, 1, testutil.CollectAndCount(m.histograms[MetricOutboxBatchDuration]))
}

func TestPrometheusMetrics_MismatchedLabelsDropped(t *testing.T) {
	m := NewPrometheusMetrics()

	m.Counter(MetricHabitsCreated, 1, T("frequency", "daily"))
	assert.NotPanics(t, func() {
		m.Counter(MetricHabitsCreated, 1, T("frequency", "daily"), T("user", "x"))
		m.Counter(MetricHabitsCreated, 1)
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.counters[MetricHabitsCreated].WithLabelValues("daily")))
}

func TestPrometheusMetrics_Handler(t *testing.T) {
	m := NewPrometheusMetrics()
	timer := StartTimer("habit.complete").WithMetrics(m)
	timer.Stop(errors.New("not scheduled"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `cadence_operation_errors_total{operation="habit.complete"} 1`)
	assert.Contains(t, string(body), "cadence_operation_duration_seconds_bucket")
	assert.Contains(t, string(body), "go_goroutines")
}
