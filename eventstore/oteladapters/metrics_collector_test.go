package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore/oteladapters"
)

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// setup
	reader, collector := givenMetricsCollector()

	// act
	collector.RecordDuration(eventstore.MetricQueryDuration, 150*time.Millisecond, map[string]string{
		"operation": "get_events",
		"status":    "success",
	})

	// assert
	histogram := findMetric[metricdata.Histogram[float64]](t, reader, eventstore.MetricQueryDuration)
	require.Len(t, histogram.DataPoints, 1)

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.15, dataPoint.Sum, 0.001)

	operation, found := dataPoint.Attributes.Value(attribute.Key("operation"))
	assert.True(t, found)
	assert.Equal(t, "get_events", operation.AsString())
}

func Test_MetricsCollector_IncrementCounter_ReusesInstrument(t *testing.T) {
	// setup
	reader, collector := givenMetricsCollector()
	labels := map[string]string{"operation": "append"}

	// act
	collector.IncrementCounter(eventstore.MetricConcurrencyConflicts, labels)
	collector.IncrementCounterContext(context.Background(), eventstore.MetricConcurrencyConflicts, labels)

	// assert
	sum := findMetric[metricdata.Sum[int64]](t, reader, eventstore.MetricConcurrencyConflicts)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	// setup
	reader, collector := givenMetricsCollector()
	labels := map[string]string{"operation": "append"}

	// act
	collector.RecordValue(eventstore.MetricEventsAppended, 3, labels)
	collector.RecordValueContext(context.Background(), eventstore.MetricEventsAppended, 1, labels)

	// assert
	gauge := findMetric[metricdata.Gauge[float64]](t, reader, eventstore.MetricEventsAppended)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 1.0, gauge.DataPoints[0].Value, 0.0001)
}

func givenMetricsCollector() (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return reader, oteladapters.NewMetricsCollector(provider.Meter("test"))
}

func findMetric[T any](t *testing.T, reader *sdkmetric.ManualReader, name string) T {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name != name {
				continue
			}

			data, ok := m.Data.(T)
			require.True(t, ok, "metric %s has unexpected data type %T", name, m.Data)

			return data
		}
	}

	require.Failf(t, "metric not found", "metric %s was not recorded", name)

	var zero T
	return zero
}
