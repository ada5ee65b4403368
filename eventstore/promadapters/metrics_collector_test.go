package promadapters_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore/promadapters"
)

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// setup
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry, promadapters.WithNamespace("zeus"))

	// act
	collector.IncrementCounter(eventstore.MetricConcurrencyConflicts, map[string]string{"operation": "append", "aggregate_type": "Academic"})
	collector.IncrementCounter(eventstore.MetricConcurrencyConflicts, map[string]string{"operation": "append", "aggregate_type": "Academic"})
	collector.IncrementCounter(eventstore.MetricConcurrencyConflicts, map[string]string{"operation": "append", "aggregate_type": "Room"})

	// assert
	count, err := testutil.GatherAndCount(registry, "zeus_"+eventstore.MetricConcurrencyConflicts)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per aggregate type")
}

func Test_MetricsCollector_DifferentLabelSetsShareOneVector(t *testing.T) {
	// setup
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.IncrementCounter(eventstore.MetricStorageErrors, map[string]string{"operation": "get_events", "status": "error", "error_type": "row_scan"})
	collector.IncrementCounter(eventstore.MetricStorageErrors, map[string]string{"operation": "append", "status": "error", "error_type": "database_exec", "aggregate_type": "Chair", "unknown": "dropped"})

	// assert
	count, err := testutil.GatherAndCount(registry, eventstore.MetricStorageErrors)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_MetricsCollector_RecordDurationAndValue(t *testing.T) {
	// setup
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry, promadapters.WithBuckets([]float64{0.01, 0.1, 1}))
	labels := map[string]string{"operation": "append", "status": "success"}

	// act
	collector.RecordDuration(eventstore.MetricAppendDuration, 20*time.Millisecond, labels)
	collector.RecordValue(eventstore.MetricEventsAppended, 4, labels)

	// assert
	count, err := testutil.GatherAndCount(registry, eventstore.MetricAppendDuration, eventstore.MetricEventsAppended)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_MetricsCollector_TwoCollectorsOnOneRegistry_ShareVectors(t *testing.T) {
	// setup
	registry := prometheus.NewRegistry()
	first := promadapters.NewMetricsCollector(registry)
	second := promadapters.NewMetricsCollector(registry)
	labels := map[string]string{"operation": "append"}

	// act
	first.IncrementCounter(eventstore.MetricConcurrencyConflicts, labels)

	// assert
	assert.NotPanics(t, func() {
		second.IncrementCounter(eventstore.MetricConcurrencyConflicts, labels)
	})

	count, err := testutil.GatherAndCount(registry, eventstore.MetricConcurrencyConflicts)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
