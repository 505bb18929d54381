package dto

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/creditrisk/internal/domain/model"
)

// ApplicantRequest is the wire form of an applicant record. Amounts arrive
// as floats and are converted to decimals; sequences are most recent first.
type ApplicantRequest struct {
	Name               string    `json:"name" yaml:"name"`
	Gender             string    `json:"gender" yaml:"gender"`
	Education          string    `json:"education" yaml:"education"`
	MaritalStatus      string    `json:"marital_status" yaml:"marital_status"`
	BillAmounts        []float64 `json:"bill_amounts" yaml:"bill_amounts"`
	PaymentAmounts     []float64 `json:"payment_amounts" yaml:"payment_amounts"`
	CreditLimit        float64   `json:"credit_limit" yaml:"credit_limit"`
	Age                int       `json:"age" yaml:"age"`
	PaymentDelayStatus int       `json:"payment_delay_status" yaml:"payment_delay_status"`
}

// ToInput converts the request to a domain input. Non-finite amounts fail
// with model.ErrValidation.
func (r ApplicantRequest) ToInput() (model.ApplicantInput, error) {
	limit, err := toDecimal("credit_limit", r.CreditLimit)
	if err != nil {
		return model.ApplicantInput{}, err
	}
	bills, err := toDecimals("bill_amounts", r.BillAmounts)
	if err != nil {
		return model.ApplicantInput{}, err
	}
	payments, err := toDecimals("payment_amounts", r.PaymentAmounts)
	if err != nil {
		return model.ApplicantInput{}, err
	}

	return model.ApplicantInput{
		Name:               r.Name,
		CreditLimit:        limit,
		Age:                r.Age,
		Gender:             r.Gender,
		Education:          r.Education,
		MaritalStatus:      r.MaritalStatus,
		PaymentDelayStatus: r.PaymentDelayStatus,
		BillAmounts:        bills,
		PaymentAmounts:     payments,
	}, nil
}

func toDecimal(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: %s must be a finite number", model.ErrValidation, field)
	}
	return decimal.NewFromFloat(v), nil
}

func toDecimals(field string, vs []float64) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		d, err := toDecimal(fmt.Sprintf("%s[%d]", field, i), v)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// InsightDTO is one qualitative finding.
type InsightDTO struct {
	Kind     string `json:"kind" yaml:"kind"`
	Severity string `json:"severity" yaml:"severity"`
	Title    string `json:"title" yaml:"title"`
	Detail   string `json:"detail" yaml:"detail"`
}

// IndicatorsDTO exposes the engineered indicators behind a score.
type IndicatorsDTO struct {
	AvgBillAmount      float64 `json:"avg_bill_amount" yaml:"avg_bill_amount"`
	AvgPaymentAmount   float64 `json:"avg_payment_amount" yaml:"avg_payment_amount"`
	CreditUtilization  float64 `json:"credit_utilization" yaml:"credit_utilization"`
	PaymentToBillRatio float64 `json:"payment_to_bill_ratio" yaml:"payment_to_bill_ratio"`
	AvgPaymentDelay    float64 `json:"avg_payment_delay" yaml:"avg_payment_delay"`
	PaymentAmountStd   float64 `json:"payment_amount_std" yaml:"payment_amount_std"`
	UtilizationPct     int     `json:"utilization_pct" yaml:"utilization_pct"`
	PaymentRatioPct    int     `json:"payment_ratio_pct" yaml:"payment_ratio_pct"`
	MaxPaymentDelay    int     `json:"max_payment_delay" yaml:"max_payment_delay"`
	NumLateMonths      int     `json:"num_late_months" yaml:"num_late_months"`
	SevereDelayFlag    int     `json:"severe_delay_flag" yaml:"severe_delay_flag"`
}

// ScoreResponse is the output of scoring one applicant without persisting it.
type ScoreResponse struct {
	Name           string        `json:"name" yaml:"name"`
	RiskTier       string        `json:"risk_tier" yaml:"risk_tier"`
	Decision       string        `json:"decision" yaml:"decision"`
	Recommendation string        `json:"recommendation" yaml:"recommendation"`
	Insights       []InsightDTO  `json:"insights" yaml:"insights"`
	Indicators     IndicatorsDTO `json:"indicators" yaml:"indicators"`
	Probability    float64       `json:"probability" yaml:"probability"`
	ProbabilityPct float64       `json:"default_probability_pct" yaml:"default_probability_pct"`
}

// AssessApplicantRequest is the input DTO for the AssessApplicant use case.
type AssessApplicantRequest struct {
	Applicant     ApplicantRequest `json:"applicant"`
	TenantID      uuid.UUID        `json:"tenant_id"`
	ApplicationID uuid.UUID        `json:"application_id"`
}

// AssessmentResponse is the output DTO for a persisted assessment.
type AssessmentResponse struct {
	AssessedAt     time.Time    `json:"assessed_at"`
	CreatedAt      time.Time    `json:"created_at"`
	Insights       []InsightDTO `json:"insights"`
	ApplicantName  string       `json:"applicant_name"`
	RiskTier       string       `json:"risk_tier"`
	Decision       string       `json:"decision"`
	Recommendation string       `json:"recommendation"`
	Probability    float64      `json:"probability"`
	ProbabilityPct float64      `json:"default_probability_pct"`
	Version        int          `json:"version"`
	ID             uuid.UUID    `json:"id"`
	TenantID       uuid.UUID    `json:"tenant_id"`
	ApplicationID  uuid.UUID    `json:"application_id"`
}

// GetAssessmentRequest is the input DTO for retrieving an assessment.
type GetAssessmentRequest struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// ListAssessmentsRequest is the input DTO for paging a tenant's assessments.
type ListAssessmentsRequest struct {
	TenantID uuid.UUID `json:"tenant_id"`
	PageSize int       `json:"page_size"`
	Offset   int       `json:"offset"`
}

// ListAssessmentsResponse is one page of assessments.
type ListAssessmentsResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
	TotalCount  int                  `json:"total_count"`
}

// ModelInfoResponse describes the loaded model artifacts.
type ModelInfoResponse struct {
	Version        string   `json:"version" yaml:"version"`
	Checksum       string   `json:"checksum" yaml:"checksum"`
	CategoryPolicy string   `json:"category_policy" yaml:"category_policy"`
	Columns        []string `json:"columns" yaml:"columns"`
}

// FromPrediction maps a prediction result to the score response.
func FromPrediction(r model.PredictionResult) ScoreResponse {
	d := r.Derived
	return ScoreResponse{
		Name:           d.Applicant.Name(),
		Probability:    r.Probability,
		ProbabilityPct: r.ProbabilityPct,
		RiskTier:       r.Tier.String(),
		Decision:       r.Recommendation.Decision.String(),
		Recommendation: r.Recommendation.Text,
		Insights:       fromInsights(r.Insights),
		Indicators: IndicatorsDTO{
			AvgBillAmount:      d.AvgBillAmount,
			AvgPaymentAmount:   d.AvgPaymentAmount,
			CreditUtilization:  d.CreditUtilization,
			PaymentToBillRatio: d.PaymentToBillRatio,
			AvgPaymentDelay:    d.AvgPaymentDelay,
			PaymentAmountStd:   d.PaymentAmountStd,
			UtilizationPct:     d.UtilizationPct(),
			PaymentRatioPct:    d.PaymentRatioPct(),
			MaxPaymentDelay:    d.MaxPaymentDelay,
			NumLateMonths:      d.NumLateMonths,
			SevereDelayFlag:    d.SevereDelayFlag,
		},
	}
}

// FromModel maps a domain model to the response DTO.
func FromModel(a *model.CreditAssessment) AssessmentResponse {
	return AssessmentResponse{
		ID:             a.ID(),
		TenantID:       a.TenantID(),
		ApplicationID:  a.ApplicationID(),
		ApplicantName:  a.Applicant().Name(),
		Probability:    a.Probability(),
		ProbabilityPct: a.ProbabilityPct(),
		RiskTier:       a.Tier().String(),
		Decision:       a.Decision().String(),
		Recommendation: a.Recommendation(),
		Insights:       fromInsights(a.Insights()),
		Version:        a.Version(),
		AssessedAt:     a.AssessedAt(),
		CreatedAt:      a.CreatedAt(),
	}
}

func fromInsights(in []model.Insight) []InsightDTO {
	out := make([]InsightDTO, 0, len(in))
	for _, i := range in {
		out = append(out, InsightDTO{
			Kind:     string(i.Kind),
			Severity: i.Severity.String(),
			Title:    i.Title,
			Detail:   i.Detail,
		})
	}
	return out
}
