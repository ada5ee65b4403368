package spies

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy captures all recorded metrics. It implements eventstore.MetricsCollector and,
// if created as contextual, eventstore.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu              sync.Mutex
	durationRecords []SpyMetricRecord
	counterRecords  []SpyMetricRecord
	valueRecords    []SpyMetricRecord
	contextualCalls int
}

// SpyMetricRecord is one captured call.
type SpyMetricRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durationRecords = append(s.durationRecords, SpyMetricRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counterRecords = append(s.counterRecords, SpyMetricRecord{Metric: metric, Value: 1, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valueRecords = append(s.valueRecords, SpyMetricRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// ContextualMetricsCollectorSpy additionally implements the context-aware methods and counts their usage.
type ContextualMetricsCollectorSpy struct {
	*MetricsCollectorSpy
}

// NewContextualMetricsCollectorSpy creates a new ContextualMetricsCollectorSpy.
func NewContextualMetricsCollectorSpy() ContextualMetricsCollectorSpy {
	return ContextualMetricsCollectorSpy{MetricsCollectorSpy: NewMetricsCollectorSpy()}
}

func (s ContextualMetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.countContextual()
	s.RecordDuration(metric, duration, labels)
}

func (s ContextualMetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.countContextual()
	s.IncrementCounter(metric, labels)
}

func (s ContextualMetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.countContextual()
	s.RecordValue(metric, value, labels)
}

func (s *MetricsCollectorSpy) countContextual() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contextualCalls++
}

// ContextualCallCount returns how often a context-aware method was used.
func (s *MetricsCollectorSpy) ContextualCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.contextualCalls
}

// MetricRecordMatcher narrows down captured records step by step.
type MetricRecordMatcher struct {
	records []SpyMetricRecord
}

// HasDurationRecordForMetric starts a matcher over duration records of the metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(func() []SpyMetricRecord { return s.durationRecords }, metric)
}

// HasCounterRecordForMetric starts a matcher over counter records of the metric.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(func() []SpyMetricRecord { return s.counterRecords }, metric)
}

// HasValueRecordForMetric starts a matcher over value records of the metric.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(func() []SpyMetricRecord { return s.valueRecords }, metric)
}

func (s *MetricsCollectorSpy) matcher(source func() []SpyMetricRecord, metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]SpyMetricRecord, 0)
	for _, record := range source() {
		if record.Metric == metric {
			matching = append(matching, record)
		}
	}

	return &MetricRecordMatcher{records: matching}
}

// WithLabel keeps only records with the given label value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	matching := make([]SpyMetricRecord, 0)

	for _, record := range m.records {
		if record.Labels[key] == value {
			matching = append(matching, record)
		}
	}

	return &MetricRecordMatcher{records: matching}
}

// WithOperation keeps only records with the given operation label.
func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

// WithStatus keeps only records with the given status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// Records returns the matched records.
func (m *MetricRecordMatcher) Records() []SpyMetricRecord {
	return m.records
}

// Assert reports whether at least one record matched.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.records) > 0
}
