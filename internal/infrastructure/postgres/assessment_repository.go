package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/internal/domain/port"
	"github.com/bibbank/creditrisk/internal/domain/valueobject"
	pgpkg "github.com/bibbank/creditrisk/pkg/postgres"
)

const selectAssessment = `
	SELECT id, tenant_id, application_id, applicant,
		probability, risk_tier, decision, recommendation,
		assessed_at, version, created_at, updated_at
	FROM credit_assessments
`

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// applicantRecord is the JSONB snapshot of the validated applicant.
type applicantRecord struct {
	Name          string            `json:"name"`
	CreditLimit   decimal.Decimal   `json:"credit_limit"`
	Age           int               `json:"age"`
	Gender        string            `json:"gender"`
	Education     string            `json:"education"`
	MaritalStatus string            `json:"marital_status"`
	DelayStatus   int               `json:"payment_delay_status"`
	Bills         []decimal.Decimal `json:"bill_amounts"`
	Payments      []decimal.Decimal `json:"payment_amounts"`
}

func toApplicantRecord(a model.Applicant) applicantRecord {
	in := a.Input()
	return applicantRecord{
		Name:          in.Name,
		CreditLimit:   in.CreditLimit,
		Age:           in.Age,
		Gender:        in.Gender,
		Education:     in.Education,
		MaritalStatus: in.MaritalStatus,
		DelayStatus:   in.PaymentDelayStatus,
		Bills:         in.BillAmounts,
		Payments:      in.PaymentAmounts,
	}
}

func (r applicantRecord) toApplicant() (model.Applicant, error) {
	return model.NewApplicant(model.ApplicantInput{
		Name:               r.Name,
		CreditLimit:        r.CreditLimit,
		Age:                r.Age,
		Gender:             r.Gender,
		Education:          r.Education,
		MaritalStatus:      r.MaritalStatus,
		PaymentDelayStatus: r.DelayStatus,
		BillAmounts:        r.Bills,
		PaymentAmounts:     r.Payments,
	}, valueobject.CategoryPolicyStrict)
}

// Save persists a credit assessment and its insights.
func (r *AssessmentRepository) Save(ctx context.Context, assessment *model.CreditAssessment) error {
	snapshot, err := json.Marshal(toApplicantRecord(assessment.Applicant()))
	if err != nil {
		return fmt.Errorf("failed to encode applicant: %w", err)
	}

	var assessedAt *time.Time
	if t := assessment.AssessedAt(); !t.IsZero() {
		assessedAt = &t
	}

	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO credit_assessments (
				id, tenant_id, application_id, applicant,
				probability, risk_tier, decision, recommendation,
				assessed_at, version, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (tenant_id, application_id) DO UPDATE SET
				applicant = EXCLUDED.applicant,
				probability = EXCLUDED.probability,
				risk_tier = EXCLUDED.risk_tier,
				decision = EXCLUDED.decision,
				recommendation = EXCLUDED.recommendation,
				assessed_at = EXCLUDED.assessed_at,
				version = EXCLUDED.version,
				updated_at = EXCLUDED.updated_at
			WHERE credit_assessments.id = EXCLUDED.id
				AND credit_assessments.version < EXCLUDED.version
			RETURNING id
		`

		// A guarded-out update returns no row.
		var storedID uuid.UUID
		err := tx.QueryRow(ctx, query,
			assessment.ID(),
			assessment.TenantID(),
			assessment.ApplicationID(),
			snapshot,
			assessment.Probability(),
			assessment.Tier().String(),
			assessment.Decision().String(),
			assessment.Recommendation(),
			assessedAt,
			assessment.Version(),
			assessment.CreatedAt(),
			assessment.UpdatedAt(),
		).Scan(&storedID)
		if errors.Is(err, pgx.ErrNoRows) {
			return port.ErrConflict
		}
		if err != nil {
			return fmt.Errorf("failed to save assessment: %w", err)
		}

		// Insights are replaced wholesale, in one round trip.
		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM assessment_insights WHERE assessment_id = $1`, storedID)
		for i, in := range assessment.Insights() {
			batch.Queue(`
				INSERT INTO assessment_insights (assessment_id, position, tenant_id, kind, severity, title, detail)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				storedID, i, assessment.TenantID(), string(in.Kind), in.Severity.String(), in.Title, in.Detail,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save insights: %w", err)
		}

		return nil
	})
}

// FindByID retrieves an assessment by its unique identifier.
func (r *AssessmentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.CreditAssessment, error) {
	row := r.pool.QueryRow(ctx, selectAssessment+`WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return scanAssessment(ctx, r.pool, row)
}

// FindByApplicationID retrieves the assessment of an application.
func (r *AssessmentRepository) FindByApplicationID(ctx context.Context, tenantID, applicationID uuid.UUID) (*model.CreditAssessment, error) {
	row := r.pool.QueryRow(ctx, selectAssessment+`WHERE tenant_id = $1 AND application_id = $2`, tenantID, applicationID)
	return scanAssessment(ctx, r.pool, row)
}

// ListByTenant pages through a tenant's assessments, newest first. The
// count and the page come from the same snapshot.
func (r *AssessmentRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*model.CreditAssessment, int, error) {
	var (
		assessments []*model.CreditAssessment
		total       int
	)
	err := pgpkg.WithTransactionOptions(ctx, r.pool, pgpkg.ReadOnlySnapshot, func(tx pgx.Tx) error {
		var err error
		assessments, total, err = listPage(ctx, tx, tenantID, limit, offset)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return assessments, total, nil
}

func listPage(ctx context.Context, q pgpkg.Querier, tenantID uuid.UUID, limit, offset int) ([]*model.CreditAssessment, int, error) {
	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM credit_assessments WHERE tenant_id = $1`, tenantID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	rows, err := q.Query(ctx,
		selectAssessment+`WHERE tenant_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		tenantID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query assessments: %w", err)
	}

	// Drain rows first; loading insights needs the connection afterwards.
	scanned, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (scannedAssessment, error) {
		return scanRow(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	assessments := make([]*model.CreditAssessment, 0, len(scanned))
	for _, s := range scanned {
		a, err := build(ctx, q, s)
		if err != nil {
			return nil, 0, err
		}
		assessments = append(assessments, a)
	}

	return assessments, total, nil
}

// DeleteOlderThan removes assessments last assessed (or, if never assessed,
// created) before cutoff. Insights are removed by cascade.
func (r *AssessmentRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM credit_assessments WHERE COALESCE(assessed_at, created_at) < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete assessments: %w", err)
	}
	return tag.RowsAffected(), nil
}

type scannedAssessment struct {
	id            uuid.UUID
	tenantID      uuid.UUID
	applicationID uuid.UUID
	applicant     []byte
	probability   float64
	tierStr       string
	decisionStr   string
	recommend     string
	assessedAt    *time.Time
	version       int
	createdAt     time.Time
	updatedAt     time.Time
}

func scanRow(row pgx.Row) (scannedAssessment, error) {
	var s scannedAssessment
	err := row.Scan(
		&s.id, &s.tenantID, &s.applicationID, &s.applicant,
		&s.probability, &s.tierStr, &s.decisionStr, &s.recommend,
		&s.assessedAt, &s.version, &s.createdAt, &s.updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, port.ErrNotFound
		}
		return s, fmt.Errorf("failed to scan assessment: %w", err)
	}
	return s, nil
}

func scanAssessment(ctx context.Context, q pgpkg.Querier, row pgx.Row) (*model.CreditAssessment, error) {
	s, err := scanRow(row)
	if err != nil {
		return nil, err
	}
	return build(ctx, q, s)
}

func build(ctx context.Context, q pgpkg.Querier, s scannedAssessment) (*model.CreditAssessment, error) {
	var rec applicantRecord
	if err := json.Unmarshal(s.applicant, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode applicant: %w", err)
	}
	applicant, err := rec.toApplicant()
	if err != nil {
		return nil, fmt.Errorf("stored applicant is invalid: %w", err)
	}

	// Unscored rows carry empty tier and decision columns.
	var (
		tier     valueobject.RiskTier
		decision valueobject.Decision
	)
	if s.tierStr != "" {
		if tier, err = valueobject.RiskTierFromString(s.tierStr); err != nil {
			return nil, fmt.Errorf("failed to parse risk tier: %w", err)
		}
	}
	if s.decisionStr != "" {
		if decision, err = valueobject.DecisionFromString(s.decisionStr); err != nil {
			return nil, fmt.Errorf("failed to parse decision: %w", err)
		}
	}

	insights, err := loadInsights(ctx, q, s.id)
	if err != nil {
		return nil, err
	}

	var assessedAt time.Time
	if s.assessedAt != nil {
		assessedAt = *s.assessedAt
	}

	return model.ReconstructAssessment(
		s.id, s.tenantID, s.applicationID,
		applicant, s.probability, tier, decision, s.recommend, insights,
		assessedAt, s.version, s.createdAt, s.updatedAt,
	), nil
}

func loadInsights(ctx context.Context, q pgpkg.Querier, assessmentID uuid.UUID) ([]model.Insight, error) {
	rows, err := q.Query(ctx,
		`SELECT kind, severity, title, detail FROM assessment_insights WHERE assessment_id = $1 ORDER BY position`,
		assessmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer rows.Close()

	insights := make([]model.Insight, 0)
	for rows.Next() {
		var kind, severity, title, detail string
		if err := rows.Scan(&kind, &severity, &title, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		sev, err := valueobject.SeverityFromString(severity)
		if err != nil {
			return nil, fmt.Errorf("failed to parse severity: %w", err)
		}
		insights = append(insights, model.Insight{
			Kind:     model.InsightKind(kind),
			Severity: sev,
			Title:    title,
			Detail:   detail,
		})
	}

	return insights, rows.Err()
}
