// Package promadapters provides a Prometheus implementation of eventstore.MetricsCollector.
package promadapters

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
)

// DefaultLabelNames are the label dimensions of every vector the collector registers.
// Labels outside this set are dropped, missing ones are exported as empty strings.
var DefaultLabelNames = []string{"operation", "status", "error_type", "aggregate_type"}

// MetricsCollector maps the eventstore metrics interface to Prometheus vectors:
//   - RecordDuration -> HistogramVec (seconds)
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
//
// Vectors are created and registered on first use.
type MetricsCollector struct {
	registerer prometheus.Registerer
	namespace  string
	labelNames []string
	buckets    []float64

	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

// Option configures a MetricsCollector.
type Option func(*MetricsCollector)

// WithNamespace prefixes all metric names, e.g. "zeus" -> "zeus_eventstore_append_duration_seconds".
func WithNamespace(namespace string) Option {
	return func(m *MetricsCollector) {
		m.namespace = namespace
	}
}

// WithBuckets overrides prometheus.DefBuckets for duration histograms.
func WithBuckets(buckets []float64) Option {
	return func(m *MetricsCollector) {
		m.buckets = buckets
	}
}

// WithLabelNames overrides DefaultLabelNames.
func WithLabelNames(labelNames ...string) Option {
	return func(m *MetricsCollector) {
		m.labelNames = labelNames
	}
}

// NewMetricsCollector creates a collector registering its vectors with registerer,
// typically prometheus.DefaultRegisterer or a dedicated prometheus.NewRegistry().
func NewMetricsCollector(registerer prometheus.Registerer, options ...Option) *MetricsCollector {
	m := &MetricsCollector{
		registerer: registerer,
		labelNames: DefaultLabelNames,
		buckets:    prometheus.DefBuckets,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	if histogram := m.histogram(metric); histogram != nil {
		histogram.With(m.toLabels(labels)).Observe(duration.Seconds())
	}
}

func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	if counter := m.counter(metric); counter != nil {
		counter.With(m.toLabels(labels)).Inc()
	}
}

func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	if gauge := m.gauge(metric); gauge != nil {
		gauge.With(m.toLabels(labels)).Set(value)
	}
}

func (m *MetricsCollector) toLabels(labels map[string]string) prometheus.Labels {
	result := make(prometheus.Labels, len(m.labelNames))
	for _, name := range m.labelNames {
		result[name] = labels[name]
	}

	return result
}

func (m *MetricsCollector) histogram(name string) *prometheus.HistogramVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, exists := m.histograms[name]; exists {
		return histogram
	}

	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      "Event store operation duration in seconds.",
			Buckets:   m.buckets,
		},
		m.labelNames,
	)

	registered, ok := m.register(histogram).(*prometheus.HistogramVec)
	if !ok {
		return nil
	}

	m.histograms[name] = registered

	return registered
}

func (m *MetricsCollector) counter(name string) *prometheus.CounterVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, exists := m.counters[name]; exists {
		return counter
	}

	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      "Event store operation counter.",
		},
		m.labelNames,
	)

	registered, ok := m.register(counter).(*prometheus.CounterVec)
	if !ok {
		return nil
	}

	m.counters[name] = registered

	return registered
}

func (m *MetricsCollector) gauge(name string) *prometheus.GaugeVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, exists := m.gauges[name]; exists {
		return gauge
	}

	gauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      "Event store current value.",
		},
		m.labelNames,
	)

	registered, ok := m.register(gauge).(*prometheus.GaugeVec)
	if !ok {
		return nil
	}

	m.gauges[name] = registered

	return registered
}

// register returns the collector that is actually registered, which is the existing one
// if another MetricsCollector already registered the same metric. It returns nil on any other error.
func (m *MetricsCollector) register(collector prometheus.Collector) prometheus.Collector {
	err := m.registerer.Register(collector)
	if err == nil {
		return collector
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		return alreadyRegistered.ExistingCollector
	}

	return nil
}

var _ eventstore.MetricsCollector = (*MetricsCollector)(nil)
