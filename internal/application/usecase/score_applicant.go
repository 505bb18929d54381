package usecase

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/creditrisk/internal/application/dto"
	"github.com/bibbank/creditrisk/internal/domain/port"
	"github.com/bibbank/creditrisk/internal/domain/service"
)

// ScoreApplicant evaluates an applicant without persisting anything.
type ScoreApplicant struct {
	evaluator *service.Evaluator
	metrics   port.MetricsRecorder
}

// NewScoreApplicant creates a new ScoreApplicant use case.
func NewScoreApplicant(evaluator *service.Evaluator, metrics port.MetricsRecorder) *ScoreApplicant {
	return &ScoreApplicant{evaluator: evaluator, metrics: metrics}
}

// Execute scores the applicant and returns the probability, tier and insights.
func (uc *ScoreApplicant) Execute(ctx context.Context, req dto.ApplicantRequest) (resp dto.ScoreResponse, err error) {
	ctx, span := startSpan(ctx, "ScoreApplicant")
	defer func() { endSpan(span, err) }()

	input, err := req.ToInput()
	if err != nil {
		uc.metrics.RecordFailure(ctx, ReasonValidation)
		return dto.ScoreResponse{}, err
	}

	result, err := uc.evaluator.Evaluate(input)
	if err != nil {
		uc.metrics.RecordFailure(ctx, failureReason(err))
		return dto.ScoreResponse{}, err
	}

	span.SetAttributes(
		attribute.String("creditrisk.tier", result.Tier.String()),
		attribute.Float64("creditrisk.probability_pct", result.ProbabilityPct),
	)
	uc.metrics.RecordPrediction(ctx, result.Tier.String(), result.ProbabilityPct)

	return dto.FromPrediction(result), nil
}
