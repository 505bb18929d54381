package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/pkg/events"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("assessment not found")

// ErrConflict is returned by Save when the stored assessment was written
// concurrently under another id or at the same or a newer version.
var ErrConflict = errors.New("assessment modified concurrently")

// AssessmentRepository defines the persistence port for credit assessments.
type AssessmentRepository interface {
	// Save persists a new or updated assessment. An update only applies to
	// the stored row with the same id and a lower version; otherwise Save
	// returns ErrConflict and writes nothing.
	Save(ctx context.Context, assessment *model.CreditAssessment) error

	// FindByID retrieves an assessment by its unique identifier.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.CreditAssessment, error)

	// FindByApplicationID retrieves the latest assessment of an application.
	FindByApplicationID(ctx context.Context, tenantID, applicationID uuid.UUID) (*model.CreditAssessment, error)

	// ListByTenant pages through a tenant's assessments, newest first, and
	// returns the total count.
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*model.CreditAssessment, int, error)

	// DeleteOlderThan removes assessments assessed before cutoff and returns
	// the number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// MetricsRecorder receives prediction outcomes for monitoring.
type MetricsRecorder interface {
	RecordPrediction(ctx context.Context, tier string, probabilityPct float64)
	RecordFailure(ctx context.Context, reason string)
}
