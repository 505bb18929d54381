package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/creditrisk/internal/application/dto"
	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/internal/domain/port"
	"github.com/bibbank/creditrisk/internal/domain/service"
	"github.com/bibbank/creditrisk/internal/infrastructure/ml"
	"github.com/bibbank/creditrisk/pkg/events"
)

// --- Mock implementations ---

type mockAssessmentRepository struct {
	saved               []*model.CreditAssessment
	saveFunc            func(ctx context.Context, a *model.CreditAssessment) error
	findByIDFunc        func(ctx context.Context, tenantID, id uuid.UUID) (*model.CreditAssessment, error)
	findByApplicationFn func(ctx context.Context, tenantID, applicationID uuid.UUID) (*model.CreditAssessment, error)
	listFunc            func(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*model.CreditAssessment, int, error)
	deleteFunc          func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockAssessmentRepository) Save(ctx context.Context, a *model.CreditAssessment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAssessmentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.CreditAssessment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return nil, port.ErrNotFound
}

func (m *mockAssessmentRepository) FindByApplicationID(ctx context.Context, tenantID, applicationID uuid.UUID) (*model.CreditAssessment, error) {
	if m.findByApplicationFn != nil {
		return m.findByApplicationFn(ctx, tenantID, applicationID)
	}
	return nil, port.ErrNotFound
}

func (m *mockAssessmentRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*model.CreditAssessment, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, tenantID, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockAssessmentRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, cutoff)
	}
	return 0, nil
}

type mockEventPublisher struct {
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockMetrics struct {
	mu          sync.Mutex
	predictions []string
	failures    []string
}

func (m *mockMetrics) RecordPrediction(_ context.Context, tier string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions = append(m.predictions, tier)
}

func (m *mockMetrics) RecordFailure(_ context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, reason)
}

// --- Fixtures ---

func newEvaluator(t *testing.T) (*service.Evaluator, *ml.Artifacts) {
	t.Helper()
	a, err := ml.LoadArtifacts("../../../models/scaler.yaml", "../../../models/model.yaml")
	require.NoError(t, err)
	e, err := service.NewEvaluator(a.Scaler, a.Model)
	require.NoError(t, err)
	return e, a
}

func lowRiskApplicant() dto.ApplicantRequest {
	return dto.ApplicantRequest{
		Name:           "Alex",
		CreditLimit:    80000,
		Age:            32,
		Gender:         "Male",
		Education:      "University",
		MaritalStatus:  "Single",
		BillAmounts:    []float64{10000, 9500, 8800, 9200, 8500, 9000},
		PaymentAmounts: []float64{5000, 4800, 4500, 5200, 4700, 5000},
	}
}

func highRiskApplicant() dto.ApplicantRequest {
	r := lowRiskApplicant()
	r.PaymentDelayStatus = 5
	return r
}
