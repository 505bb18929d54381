package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := NewRecorder(provider)
	require.NoError(t, err)

	ctx := context.Background()
	rec.RecordPrediction(ctx, "LOW", 12.5)
	rec.RecordPrediction(ctx, "LOW", 20)
	rec.RecordPrediction(ctx, "HIGH", 75)
	rec.RecordFailure(ctx, "validation")

	metrics := collect(t, reader)

	predictions, ok := metrics["creditrisk_predictions_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byTier := make(map[string]int64)
	for _, dp := range predictions.DataPoints {
		tier, _ := dp.Attributes.Value(attribute.Key("tier"))
		byTier[tier.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"LOW": 2, "HIGH": 1}, byTier)

	failures, ok := metrics["creditrisk_prediction_failures_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, failures.DataPoints, 1)
	assert.Equal(t, int64(1), failures.DataPoints[0].Value)

	hist, ok := metrics["creditrisk_default_probability_pct"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestRecorder_NoopProvider(t *testing.T) {
	rec, err := NewRecorder(noop.NewMeterProvider())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		rec.RecordPrediction(context.Background(), "MEDIUM", 45)
		rec.RecordFailure(context.Background(), "prediction")
	})
}
