package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/creditrisk/internal/domain/port"
)

// PurgeExpiredAssessments deletes assessments older than the retention window.
type PurgeExpiredAssessments struct {
	repo      port.AssessmentRepository
	logger    *slog.Logger
	now       func() time.Time
	retention time.Duration
}

// NewPurgeExpiredAssessments creates the purge use case. retention must be
// positive.
func NewPurgeExpiredAssessments(repo port.AssessmentRepository, retention time.Duration, logger *slog.Logger) (*PurgeExpiredAssessments, error) {
	if retention <= 0 {
		return nil, errors.New("retention must be positive")
	}
	return &PurgeExpiredAssessments{
		repo:      repo,
		logger:    logger,
		now:       time.Now,
		retention: retention,
	}, nil
}

// Execute removes expired assessments and returns how many were deleted.
func (uc *PurgeExpiredAssessments) Execute(ctx context.Context) (removed int64, err error) {
	ctx, span := startSpan(ctx, "PurgeExpiredAssessments")
	defer func() { endSpan(span, err) }()

	cutoff := uc.now().UTC().Add(-uc.retention)
	removed, err = uc.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge assessments: %w", err)
	}

	uc.logger.InfoContext(ctx, "purged expired assessments",
		slog.Time("cutoff", cutoff),
		slog.Int64("removed", removed),
	)
	return removed, nil
}
