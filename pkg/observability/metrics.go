package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metrics records counters, gauges and distributions. A metric keeps the tag
// keys it was first recorded with.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Histogram(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag is one metric label.
type Tag struct {
	Key   string
	Value string
}

func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(name string, value int64, tags ...Tag)           {}
func (NoopMetrics) Gauge(name string, value float64, tags ...Tag)           {}
func (NoopMetrics) Histogram(name string, value float64, tags ...Tag)       {}
func (NoopMetrics) Timing(name string, duration time.Duration, tags ...Tag) {}

// InMemoryMetrics records every observation per series, where a series is a
// metric name plus its tags in key order. Tests read them back with the Get
// methods.
type InMemoryMetrics struct {
	mu     sync.RWMutex
	series map[string]*series
}

type series struct {
	count     int64
	last      float64
	samples   []float64
	durations []time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{series: make(map[string]*series)}
}

func (m *InMemoryMetrics) observe(name string, tags []Tag, apply func(s *series)) {
	key := seriesKey(name, tags)

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.series[key]
	if !ok {
		s = &series{}
		m.series[key] = s
	}
	apply(s)
}

// snapshot returns a copy of the series, zero valued when never observed.
func (m *InMemoryMetrics) snapshot(name string, tags []Tag) series {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.series[seriesKey(name, tags)]
	if !ok {
		return series{}
	}
	return series{
		count:     s.count,
		last:      s.last,
		samples:   slices.Clone(s.samples),
		durations: slices.Clone(s.durations),
	}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.observe(name, tags, func(s *series) { s.count += value })
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.observe(name, tags, func(s *series) { s.last = value })
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.observe(name, tags, func(s *series) { s.samples = append(s.samples, value) })
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.observe(name, tags, func(s *series) { s.durations = append(s.durations, duration) })
}

func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	return m.snapshot(name, tags).count
}

func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	return m.snapshot(name, tags).last
}

func (m *InMemoryMetrics) GetHistogram(name string, tags ...Tag) []float64 {
	return m.snapshot(name, tags).samples
}

func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	return m.snapshot(name, tags).durations
}

// Reset drops every series.
func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.series)
}

// seriesKey renders name:k1=v1:k2=v2 with tags sorted by key, so callers may
// pass tags in any order.
func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := slices.Clone(tags)
	slices.SortStableFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })

	parts := make([]string, 0, len(sorted)+1)
	parts = append(parts, name)
	for _, t := range sorted {
		parts = append(parts, t.Key+"="+t.Value)
	}
	return strings.Join(parts, ":")
}

// Metric names. Counters end in _total and durations in _seconds so the
// Prometheus backend can expose them unchanged.
const (
	MetricOperationTotal    = "cadence_operation_total"
	MetricOperationDuration = "cadence_operation_duration_seconds"
	MetricOperationErrors   = "cadence_operation_errors_total"

	MetricHabitsCreated    = "cadence_habits_created_total"
	MetricHabitCompletions = "cadence_habit_completions_total"
	MetricHabitsDeleted    = "cadence_habits_deleted_total"
	MetricHabitsDue        = "cadence_habits_due"

	MetricOutboxMessages      = "cadence_outbox_messages_total"
	MetricOutboxLag           = "cadence_outbox_lag_seconds"
	MetricOutboxBatchDuration = "cadence_outbox_batch_duration_seconds"
)
