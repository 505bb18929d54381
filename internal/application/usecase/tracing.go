package usecase

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/creditrisk/internal/domain/model"
)

var tracer = otel.Tracer("github.com/bibbank/creditrisk/internal/application/usecase")

// Failure reasons reported to the metrics recorder.
const (
	ReasonValidation = "validation"
	ReasonPrediction = "prediction"
	ReasonStorage    = "storage"
	ReasonPublish    = "publish"
)

func failureReason(err error) string {
	if errors.Is(err, model.ErrValidation) {
		return ReasonValidation
	}
	return ReasonPrediction
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}
