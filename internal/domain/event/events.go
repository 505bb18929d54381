package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/creditrisk/pkg/events"
)

const (
	// AggregateType is the aggregate name carried on every credit risk event.
	AggregateType = "CreditAssessment"

	// EventTypeAssessmentCompleted is emitted when an applicant has been scored.
	EventTypeAssessmentCompleted = "creditrisk.assessment.completed"

	// EventTypeHighRiskDetected is emitted when an applicant lands in the HIGH tier.
	EventTypeHighRiskDetected = "creditrisk.high_risk.detected"
)

// AssessmentCompleted is published for every scored application.
type AssessmentCompleted struct {
	events.BaseEvent
	ApplicationID  uuid.UUID `json:"application_id"`
	ProbabilityPct float64   `json:"probability_pct"`
	Tier           string    `json:"tier"`
	Decision       string    `json:"decision"`
	InsightCount   int       `json:"insight_count"`
	AssessedAt     time.Time `json:"assessed_at"`
}

// NewAssessmentCompleted builds an AssessmentCompleted event.
func NewAssessmentCompleted(
	assessmentID, tenantID, applicationID uuid.UUID,
	probabilityPct float64,
	tier, decision string,
	insightCount int,
	assessedAt time.Time,
) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:      events.NewBaseEvent(EventTypeAssessmentCompleted, assessmentID, AggregateType, tenantID),
		ApplicationID:  applicationID,
		ProbabilityPct: probabilityPct,
		Tier:           tier,
		Decision:       decision,
		InsightCount:   insightCount,
		AssessedAt:     assessedAt,
	}
}

// HighRiskDetected is published when an application is scored HIGH, so that
// downstream underwriting can hold the application for manual review.
type HighRiskDetected struct {
	events.BaseEvent
	ApplicationID  uuid.UUID `json:"application_id"`
	ProbabilityPct float64   `json:"probability_pct"`
	Findings       []string  `json:"critical_findings"`
	DetectedAt     time.Time `json:"detected_at"`
}

// NewHighRiskDetected builds a HighRiskDetected event.
func NewHighRiskDetected(
	assessmentID, tenantID, applicationID uuid.UUID,
	probabilityPct float64,
	findings []string,
	detectedAt time.Time,
) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:      events.NewBaseEvent(EventTypeHighRiskDetected, assessmentID, AggregateType, tenantID),
		ApplicationID:  applicationID,
		ProbabilityPct: probabilityPct,
		Findings:       findings,
		DetectedAt:     detectedAt,
	}
}
