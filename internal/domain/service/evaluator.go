package service

import (
	"fmt"
	"math"

	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/internal/domain/port"
	"github.com/bibbank/creditrisk/internal/domain/valueobject"
)

// Evaluator runs the full pipeline for one applicant: validate, derive,
// align, scale, predict, classify. It holds only read-only state and is safe
// for concurrent use.
type Evaluator struct {
	scaler     port.Scaler
	classifier port.Classifier
	aligner    *SchemaAligner
	policy     valueobject.CategoryPolicy
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithCategoryPolicy sets how unrecognised categorical values are handled.
func WithCategoryPolicy(p valueobject.CategoryPolicy) EvaluatorOption {
	return func(e *Evaluator) { e.policy = p }
}

// NewEvaluator builds an Evaluator over fitted adapters. Missing adapters or
// an unusable scaler schema fail with ErrConfiguration.
func NewEvaluator(scaler port.Scaler, classifier port.Classifier, opts ...EvaluatorOption) (*Evaluator, error) {
	if scaler == nil {
		return nil, fmt.Errorf("%w: scaler is required", ErrConfiguration)
	}
	if classifier == nil {
		return nil, fmt.Errorf("%w: classifier is required", ErrConfiguration)
	}

	aligner, err := NewSchemaAligner(scaler.ExpectedColumns())
	if err != nil {
		return nil, err
	}

	e := &Evaluator{
		scaler:     scaler,
		classifier: classifier,
		aligner:    aligner,
		policy:     valueobject.CategoryPolicyStrict,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ExpectedColumns returns the fitted schema the evaluator aligns to.
func (e *Evaluator) ExpectedColumns() []string {
	return e.aligner.Columns()
}

// Evaluate scores a raw applicant. Invalid input fails with
// model.ErrValidation; adapter failures and out-of-range probabilities fail
// with ErrPrediction. No partial result is returned on error.
func (e *Evaluator) Evaluate(in model.ApplicantInput) (model.PredictionResult, error) {
	applicant, err := model.NewApplicant(in, e.policy)
	if err != nil {
		return model.PredictionResult{}, err
	}
	return e.EvaluateApplicant(applicant)
}

// EvaluateApplicant scores an already validated applicant.
func (e *Evaluator) EvaluateApplicant(applicant model.Applicant) (model.PredictionResult, error) {
	derived := DeriveFeatures(applicant)
	aligned := e.aligner.Align(derived)

	scaled, err := e.scaler.Transform(aligned)
	if err != nil {
		return model.PredictionResult{}, fmt.Errorf("%w: scale features: %w", ErrPrediction, err)
	}
	if len(scaled) != len(aligned) {
		return model.PredictionResult{}, fmt.Errorf("%w: scaler returned %d values, want %d",
			ErrPrediction, len(scaled), len(aligned))
	}

	prob, err := e.classifier.PredictProba(scaled)
	if err != nil {
		return model.PredictionResult{}, fmt.Errorf("%w: predict probability: %w", ErrPrediction, err)
	}
	if math.IsNaN(prob) || prob < 0 || prob > 1 {
		return model.PredictionResult{}, fmt.Errorf("%w: probability %v outside [0, 1]", ErrPrediction, prob)
	}

	pct := prob * 100
	tier := valueobject.RiskTierFromPercent(pct)

	return model.PredictionResult{
		Probability:    prob,
		ProbabilityPct: pct,
		Tier:           tier,
		Recommendation: valueobject.RecommendationForTier(tier),
		Insights:       GenerateInsights(derived),
		Derived:        derived,
	}, nil
}
