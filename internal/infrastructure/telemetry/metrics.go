package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName scopes the service's instruments.
const MeterName = "github.com/bibbank/creditrisk"

// probabilityBuckets are percentage bucket bounds aligned with the tier
// thresholds.
var probabilityBuckets = []float64{5, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// Recorder implements port.MetricsRecorder with OpenTelemetry instruments.
type Recorder struct {
	predictions metric.Int64Counter
	failures    metric.Int64Counter
	probability metric.Float64Histogram
}

// NewRecorder creates the prediction instruments on the given provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(MeterName)

	predictions, err := meter.Int64Counter("creditrisk_predictions_total",
		metric.WithDescription("Completed predictions by risk tier."),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create predictions counter: %w", err)
	}

	failures, err := meter.Int64Counter("creditrisk_prediction_failures_total",
		metric.WithDescription("Failed predictions by reason."),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create failures counter: %w", err)
	}

	probability, err := meter.Float64Histogram("creditrisk_default_probability_pct",
		metric.WithDescription("Predicted default probability in percent."),
		metric.WithUnit("%"),
		metric.WithExplicitBucketBoundaries(probabilityBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create probability histogram: %w", err)
	}

	return &Recorder{
		predictions: predictions,
		failures:    failures,
		probability: probability,
	}, nil
}

// RecordPrediction counts a completed prediction and observes its probability.
func (r *Recorder) RecordPrediction(ctx context.Context, tier string, probabilityPct float64) {
	attrs := metric.WithAttributes(attribute.String("tier", tier))
	r.predictions.Add(ctx, 1, attrs)
	r.probability.Record(ctx, probabilityPct, attrs)
}

// RecordFailure counts a failed prediction.
func (r *Recorder) RecordFailure(ctx context.Context, reason string) {
	r.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
