package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/creditrisk/internal/domain/event"
	"github.com/bibbank/creditrisk/internal/domain/valueobject"
	"github.com/bibbank/creditrisk/pkg/events"
)

// CreditAssessment is the aggregate root for a persisted applicant evaluation.
type CreditAssessment struct {
	events.EventCollector

	assessedAt     time.Time
	createdAt      time.Time
	updatedAt      time.Time
	applicant      Applicant
	tier           valueobject.RiskTier
	decision       valueobject.Decision
	recommendation string
	insights       []Insight
	probability    float64
	version        int
	applicationID  uuid.UUID
	tenantID       uuid.UUID
	id             uuid.UUID
}

// NewCreditAssessment creates an unscored assessment for an application.
// Call Assess to attach a prediction.
func NewCreditAssessment(tenantID, applicationID uuid.UUID, applicant Applicant) (*CreditAssessment, error) {
	if tenantID == uuid.Nil {
		return nil, errors.New("tenant ID is required")
	}
	if applicationID == uuid.Nil {
		return nil, errors.New("application ID is required")
	}

	now := time.Now().UTC()
	return &CreditAssessment{
		id:            uuid.New(),
		tenantID:      tenantID,
		applicationID: applicationID,
		applicant:     applicant,
		insights:      make([]Insight, 0),
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Assess records a prediction on the assessment and raises the matching
// domain events. A HIGH tier additionally raises HighRiskDetected.
func (a *CreditAssessment) Assess(result PredictionResult) error {
	if result.Probability < 0 || result.Probability > 1 {
		return fmt.Errorf("probability must be between 0 and 1, got %v", result.Probability)
	}
	if result.Tier.IsZero() {
		return errors.New("risk tier is required")
	}

	a.probability = result.Probability
	a.tier = result.Tier
	a.decision = result.Recommendation.Decision
	a.recommendation = result.Recommendation.Text
	a.insights = append([]Insight(nil), result.Insights...)
	a.assessedAt = time.Now().UTC()
	a.updatedAt = a.assessedAt
	a.version++

	a.Record(event.NewAssessmentCompleted(
		a.id, a.tenantID, a.applicationID,
		a.ProbabilityPct(), a.tier.String(), a.decision.String(),
		len(a.insights), a.assessedAt,
	))

	if a.tier.IsHigh() {
		a.Record(event.NewHighRiskDetected(
			a.id, a.tenantID, a.applicationID,
			a.ProbabilityPct(), result.CriticalInsights(), a.assessedAt,
		))
	}

	return nil
}

// ReconstructAssessment rebuilds a CreditAssessment from persisted data
// (no validation, no events).
func ReconstructAssessment(
	id, tenantID, applicationID uuid.UUID,
	applicant Applicant,
	probability float64,
	tier valueobject.RiskTier,
	decision valueobject.Decision,
	recommendation string,
	insights []Insight,
	assessedAt time.Time,
	version int,
	createdAt, updatedAt time.Time,
) *CreditAssessment {
	return &CreditAssessment{
		id:             id,
		tenantID:       tenantID,
		applicationID:  applicationID,
		applicant:      applicant,
		probability:    probability,
		tier:           tier,
		decision:       decision,
		recommendation: recommendation,
		insights:       insights,
		assessedAt:     assessedAt,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// --- Accessors ---

func (a *CreditAssessment) ID() uuid.UUID                  { return a.id }
func (a *CreditAssessment) TenantID() uuid.UUID            { return a.tenantID }
func (a *CreditAssessment) ApplicationID() uuid.UUID       { return a.applicationID }
func (a *CreditAssessment) Applicant() Applicant           { return a.applicant }
func (a *CreditAssessment) Probability() float64           { return a.probability }
func (a *CreditAssessment) ProbabilityPct() float64        { return a.probability * 100 }
func (a *CreditAssessment) Tier() valueobject.RiskTier     { return a.tier }
func (a *CreditAssessment) Decision() valueobject.Decision { return a.decision }
func (a *CreditAssessment) Recommendation() string         { return a.recommendation }
func (a *CreditAssessment) Insights() []Insight            { return a.insights }
func (a *CreditAssessment) AssessedAt() time.Time          { return a.assessedAt }
func (a *CreditAssessment) Version() int                   { return a.version }
func (a *CreditAssessment) CreatedAt() time.Time           { return a.createdAt }
func (a *CreditAssessment) UpdatedAt() time.Time           { return a.updatedAt }
