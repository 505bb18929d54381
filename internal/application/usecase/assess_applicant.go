package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/creditrisk/internal/application/dto"
	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/internal/domain/port"
	"github.com/bibbank/creditrisk/internal/domain/service"
)

const maxSaveAttempts = 3

// AssessApplicant scores an application, persists the assessment and
// publishes the resulting domain events. Re-assessing an application updates
// its existing assessment.
type AssessApplicant struct {
	repo      port.AssessmentRepository
	publisher port.EventPublisher
	metrics   port.MetricsRecorder
	evaluator *service.Evaluator
}

// NewAssessApplicant creates a new AssessApplicant use case.
func NewAssessApplicant(
	repo port.AssessmentRepository,
	publisher port.EventPublisher,
	metrics port.MetricsRecorder,
	evaluator *service.Evaluator,
) *AssessApplicant {
	return &AssessApplicant{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		evaluator: evaluator,
	}
}

// Execute runs the assessment flow.
func (uc *AssessApplicant) Execute(ctx context.Context, req dto.AssessApplicantRequest) (resp dto.AssessmentResponse, err error) {
	ctx, span := startSpan(ctx, "AssessApplicant")
	defer func() { endSpan(span, err) }()

	span.SetAttributes(
		attribute.String("creditrisk.tenant_id", req.TenantID.String()),
		attribute.String("creditrisk.application_id", req.ApplicationID.String()),
	)

	// 1. Score the applicant.
	input, err := req.Applicant.ToInput()
	if err != nil {
		uc.metrics.RecordFailure(ctx, ReasonValidation)
		return dto.AssessmentResponse{}, err
	}
	result, err := uc.evaluator.Evaluate(input)
	if err != nil {
		uc.metrics.RecordFailure(ctx, failureReason(err))
		return dto.AssessmentResponse{}, err
	}

	// 2. Load or create, assess and save. A concurrent writer forces a
	// reload so the saved row and the returned aggregate share one id.
	var assessment *model.CreditAssessment
	for attempt := 1; ; attempt++ {
		assessment, err = uc.loadOrCreate(ctx, req, result.Derived.Applicant)
		if err != nil {
			return dto.AssessmentResponse{}, err
		}
		if err := assessment.Assess(result); err != nil {
			return dto.AssessmentResponse{}, fmt.Errorf("failed to assess application: %w", err)
		}

		err = uc.repo.Save(ctx, assessment)
		if errors.Is(err, port.ErrConflict) && attempt < maxSaveAttempts {
			continue
		}
		if err != nil {
			uc.metrics.RecordFailure(ctx, ReasonStorage)
			return dto.AssessmentResponse{}, fmt.Errorf("failed to save assessment: %w", err)
		}
		break
	}
	uc.metrics.RecordPrediction(ctx, result.Tier.String(), result.ProbabilityPct)

	// 3. Publish domain events.
	if err := assessment.Flush(ctx, uc.publisher.Publish); err != nil {
		uc.metrics.RecordFailure(ctx, ReasonPublish)
		return dto.AssessmentResponse{}, fmt.Errorf("failed to publish events: %w", err)
	}

	span.SetAttributes(attribute.String("creditrisk.tier", result.Tier.String()))
	return dto.FromModel(assessment), nil
}

func (uc *AssessApplicant) loadOrCreate(ctx context.Context, req dto.AssessApplicantRequest, applicant model.Applicant) (*model.CreditAssessment, error) {
	existing, err := uc.repo.FindByApplicationID(ctx, req.TenantID, req.ApplicationID)
	switch {
	case errors.Is(err, port.ErrNotFound):
		assessment, err := model.NewCreditAssessment(req.TenantID, req.ApplicationID, applicant)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrValidation, err)
		}
		return assessment, nil
	case err != nil:
		uc.metrics.RecordFailure(ctx, ReasonStorage)
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	// The latest applicant snapshot replaces the stored one.
	return model.ReconstructAssessment(
		existing.ID(), existing.TenantID(), existing.ApplicationID(),
		applicant, existing.Probability(), existing.Tier(),
		existing.Decision(), existing.Recommendation(), existing.Insights(),
		existing.AssessedAt(), existing.Version(),
		existing.CreatedAt(), existing.UpdatedAt(),
	), nil
}
